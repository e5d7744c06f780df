package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/meshforge/pkg/mesh"
)

// OBJ format errors.
var (
	ErrMalformedLine      = errors.New("malformed line")
	ErrMalformedNumber    = errors.New("malformed number")
	ErrMissingComponent   = errors.New("face vertex missing position or normal")
	ErrIndexOutOfRange    = errors.New("face index out of range")
	ErrUnsupportedPolygon = errors.New("only triangles and quads are supported")
	ErrMixedUV            = errors.New("faces mix vertices with and without texture coordinates")
)

// ParseError reports the line an OBJ parse failed on.
type ParseError struct {
	Line    int    // 1-based line number
	Content string // trimmed line text
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obj line %d %q: %v", e.Line, e.Content, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OBJOptions controls how OBJ text is converted.
type OBJOptions struct {
	// FlipV stores texture V as 1-v.
	FlipV bool
}

// VertexRef is one face vertex token, with 0-based pool indices.
// HasUV distinguishes "p//n" from any real uv index. Refs compare by
// resolved index, so "01//1" and "1//1" are the same vertex.
type VertexRef struct {
	Position int
	UV       int
	HasUV    bool
	Normal   int
}

// String returns the ref in OBJ notation (1-based).
func (r VertexRef) String() string {
	if !r.HasUV {
		return fmt.Sprintf("%d//%d", r.Position+1, r.Normal+1)
	}
	return fmt.Sprintf("%d/%d/%d", r.Position+1, r.UV+1, r.Normal+1)
}

type faceLine struct {
	num     int
	content string
	refs    []string
}

// objParser holds the state of a single ParseOBJ call.
type objParser struct {
	opts OBJOptions

	positions [][3]float32
	uvs       [][2]float32
	normals   [][3]float32
	faces     []faceLine

	cache   map[VertexRef]uint32
	out     mesh.Descriptor
	uvState int // 0 unknown, 1 with uv, -1 without
}

// ParseOBJ parses Wavefront OBJ text into a deduplicated indexed mesh.
// Each distinct position/uv/normal combination becomes one output vertex.
// Quads are split into (0,1,2) and (2,3,0).
func ParseOBJ(data []byte, opts OBJOptions) (*mesh.Descriptor, error) {
	p := &objParser{
		opts:  opts,
		cache: make(map[VertexRef]uint32),
	}
	p.out.Topology = mesh.Triangles

	if err := p.collect(data); err != nil {
		return nil, err
	}
	for _, f := range p.faces {
		if err := p.face(f); err != nil {
			return nil, err
		}
	}

	out := p.out
	return &out, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string, opts OBJOptions) (*mesh.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data, opts)
}

// collect fills the attribute pools and records face lines for the second pass.
func (p *objParser) collect(data []byte) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	num := 0
	for sc.Scan() {
		num++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		fail := func(err error) error {
			return &ParseError{Line: num, Content: line, Err: err}
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return fail(err)
			}
			p.positions = append(p.positions, [3]float32{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return fail(err)
			}
			p.uvs = append(p.uvs, [2]float32{v[0], v[1]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return fail(err)
			}
			p.normals = append(p.normals, [3]float32{v[0], v[1], v[2]})
		case "f":
			refs := fields[1:]
			if len(refs) < 3 {
				return fail(fmt.Errorf("%w: face needs at least 3 vertices, got %d", ErrMalformedLine, len(refs)))
			}
			if len(refs) > 4 {
				return fail(fmt.Errorf("%w: got %d vertices", ErrUnsupportedPolygon, len(refs)))
			}
			p.faces = append(p.faces, faceLine{num: num, content: line, refs: refs})
		}
	}
	if err := sc.Err(); err != nil {
		return &ParseError{Line: num + 1, Err: err}
	}
	return nil
}

// face emits the indices of one triangle or quad.
func (p *objParser) face(f faceLine) error {
	order := []int{0, 1, 2}
	if len(f.refs) == 4 {
		order = append(order, 2, 3, 0)
	}
	for _, i := range order {
		idx, err := p.vertex(f.refs[i])
		if err != nil {
			return &ParseError{Line: f.num, Content: f.content, Err: err}
		}
		p.out.Indices = append(p.out.Indices, idx)
	}
	return nil
}

// vertex returns the output index for a face token, appending a new vertex on a cache miss.
func (p *objParser) vertex(token string) (uint32, error) {
	ref, err := p.parseRef(token)
	if err != nil {
		return 0, err
	}
	if idx, ok := p.cache[ref]; ok {
		return idx, nil
	}

	state := -1
	if ref.HasUV {
		state = 1
	}
	if p.uvState != 0 && p.uvState != state {
		return 0, fmt.Errorf("%w: %s", ErrMixedUV, token)
	}
	p.uvState = state

	pos := p.positions[ref.Position]
	nrm := p.normals[ref.Normal]
	p.out.Positions = append(p.out.Positions, pos[0], pos[1], pos[2])
	p.out.Normals = append(p.out.Normals, nrm[0], nrm[1], nrm[2])
	if ref.HasUV {
		uv := p.uvs[ref.UV]
		v := uv[1]
		if p.opts.FlipV {
			v = 1 - v
		}
		p.out.UVs = append(p.out.UVs, uv[0], v)
	}

	idx := uint32(len(p.cache))
	p.cache[ref] = idx
	return idx, nil
}

// parseRef splits "p/uv/n" or "p//n" and resolves 1-based indices against the pools.
func (p *objParser) parseRef(token string) (VertexRef, error) {
	parts := strings.Split(token, "/")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return VertexRef{}, fmt.Errorf("%w: %q", ErrMissingComponent, token)
	}

	var ref VertexRef
	var err error
	if ref.Position, err = poolIndex(parts[0], len(p.positions), "position"); err != nil {
		return VertexRef{}, err
	}
	if ref.Normal, err = poolIndex(parts[2], len(p.normals), "normal"); err != nil {
		return VertexRef{}, err
	}
	if parts[1] != "" {
		if ref.UV, err = poolIndex(parts[1], len(p.uvs), "uv"); err != nil {
			return VertexRef{}, err
		}
		ref.HasUV = true
	}
	return ref, nil
}

func poolIndex(s string, size int, pool string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s index %q", ErrMalformedNumber, pool, s)
	}
	if n < 1 || n > size {
		return 0, fmt.Errorf("%w: %s index %d, pool size %d", ErrIndexOutOfRange, pool, n, size)
	}
	return n - 1, nil
}

func parseFloats(fields []string, want int) ([]float32, error) {
	if len(fields) < want {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrMalformedLine, want, len(fields))
	}
	out := make([]float32, want)
	for i := range want {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedNumber, fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}
