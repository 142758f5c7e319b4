package formats

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Scene document errors.
var (
	ErrEmptyDocument = errors.New("empty scene document")
)

// SceneNode is one node of the display scene graph. Exactly one of the
// display flags is set for displayable nodes; a node with none set is a
// plain grouping node.
type SceneNode struct {
	Name           string          `json:"name"`
	Transforms     *[16]float64    `json:"transforms"`
	IsBlockDisplay bool            `json:"isBlockDisplay"`
	IsItemDisplay  bool            `json:"isItemDisplay"`
	IsTextDisplay  bool            `json:"isTextDisplay"`
	NBT            json.RawMessage `json:"nbt"`
	Brightness     *Brightness     `json:"brightness"`
	TagHead        *HeadTag        `json:"tagHead"`
	Options        json.RawMessage `json:"options"`
	PaintTexture   string          `json:"paintTexture"`
	Children       []SceneNode     `json:"children"`
}

// Brightness carries per-node light overrides, passed through untouched.
type Brightness struct {
	Sky   int `json:"sky"`
	Block int `json:"block"`
}

// HeadTag carries player-head data: an optional literal texture reference
// and an optional display-transform override, row-major.
type HeadTag struct {
	Texture   string       `json:"texture"`
	Transform *[16]float64 `json:"transform"`
}

// DecodeDocument decodes a scene document payload into its root node list.
//
// The on-disk envelope is base64 over gzip over JSON. A data-URL style
// prefix ahead of the base64 body is tolerated, as is a payload that is
// already plain JSON.
func DecodeDocument(payload []byte) ([]SceneNode, error) {
	body := bytes.TrimSpace(payload)
	if len(body) == 0 {
		return nil, ErrEmptyDocument
	}

	// Already-decoded JSON passes straight through.
	if body[0] == '[' || body[0] == '{' {
		return decodeNodes(body)
	}

	if i := bytes.LastIndexByte(body, ','); i >= 0 && bytes.HasPrefix(body, []byte("data:")) {
		body = body[i+1:]
	}

	raw, err := decodeBase64(string(body))
	if err != nil {
		return nil, fmt.Errorf("decoding scene payload: %w", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decompressing scene payload: %w", err)
	}
	defer zr.Close()

	doc, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing scene payload: %w", err)
	}

	return decodeNodes(doc)
}

// EncodeDocument is DecodeDocument's inverse, used by tooling and tests.
func EncodeDocument(nodes []SceneNode) ([]byte, error) {
	doc, err := json.Marshal(nodes)
	if err != nil {
		return nil, fmt.Errorf("encoding scene nodes: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(doc); err != nil {
		return nil, fmt.Errorf("compressing scene document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing scene document: %w", err)
	}

	return []byte(base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

func decodeNodes(doc []byte) ([]SceneNode, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		// Single-root documents wrap the node directly.
		var root SceneNode
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, fmt.Errorf("parsing scene document: %w", err)
		}
		return []SceneNode{root}, nil
	}

	var nodes []SceneNode
	if err := json.Unmarshal(trimmed, &nodes); err != nil {
		return nil, fmt.Errorf("parsing scene document: %w", err)
	}
	return nodes, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
