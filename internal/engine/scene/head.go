package scene

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/veldtec/displaymesh/internal/engine/state"
	"github.com/veldtec/displaymesh/pkg/formats"
	"github.com/veldtec/displaymesh/pkg/math"
)

// DefaultSkinURL is applied to player heads that carry no identity data.
const DefaultSkinURL = "http://textures.minecraft.net/texture/1a4af718455d4aab528e7a61f86fa25e6a369d1768dcb13f7df319a713eb810b"

// skinValuePattern matches the base64 texture property inside an identity
// blob, whether the blob arrives as JSON or as the game's looser tag
// syntax with unquoted keys.
var skinValuePattern = regexp.MustCompile(`Value["']?\s*:\s*["']?([A-Za-z0-9+/=]{40,})`)

func isPlayerHead(name string) bool {
	return state.ParseInstance(name).ID.Base() == "player_head"
}

// headItem emits a player head without geometry. Binding the skin texture
// to head geometry is the consumer's job.
func headItem(node *formats.SceneNode, world math.Mat4) RenderItem {
	item := RenderItem{
		Name:       node.Name,
		World:      world,
		Skin:       headSkin(node),
		Brightness: node.Brightness,
	}
	if node.TagHead != nil && node.TagHead.Transform != nil {
		item.HeadTransform = node.TagHead.Transform
	}
	return item
}

// headSkin resolves the skin reference: the identity blob embedded in the
// node's nbt, then an explicit tagHead texture, then the paint texture,
// then the stock default.
func headSkin(node *formats.SceneNode) string {
	if url := skinFromNBT(node.NBT); url != "" {
		return url
	}
	if node.TagHead != nil && node.TagHead.Texture != "" {
		return node.TagHead.Texture
	}
	if node.PaintTexture != "" {
		return node.PaintTexture
	}
	return DefaultSkinURL
}

// skinFromNBT digs the skin URL out of a head's identity blob: a base64
// texture property whose decoded JSON carries textures.SKIN.url. Returns
// "" when no usable blob is present.
func skinFromNBT(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	// A JSON string unescapes first; any other shape scans as-is.
	blob := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		blob = s
	}

	m := skinValuePattern.FindStringSubmatch(blob)
	if m == nil {
		return ""
	}
	decoded, err := decodeIdentity(m[1])
	if err != nil {
		return ""
	}

	var ident struct {
		Textures struct {
			Skin struct {
				URL string `json:"url"`
			} `json:"SKIN"`
		} `json:"textures"`
	}
	if err := json.Unmarshal(decoded, &ident); err != nil {
		return ""
	}
	return ident.Textures.Skin.URL
}

func decodeIdentity(s string) ([]byte, error) {
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
