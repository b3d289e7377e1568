package shader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/richinsley/glharness/graphics"
	"github.com/richinsley/glharness/translator"
)

// Source is a vertex and fragment stage pair.
type Source struct {
	Vertex   string
	Fragment string

	// names maps declared identifiers to the ones emitted by translation.
	names map[string]string
}

func (s Source) name(declared string) string {
	if mapped, ok := s.names[declared]; ok {
		return mapped
	}
	return declared
}

// IsGLES reports whether either stage declares an ESSL version.
func (s Source) IsGLES() bool {
	return isESSL(s.Vertex) || isESSL(s.Fragment)
}

func isESSL(src string) bool {
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		return strings.HasPrefix(line, "#version") && strings.HasSuffix(line, " es")
	}
	return false
}

// LoadSource reads both stages from disk. ESSL 3.00 sources are translated
// for a desktop core context.
func LoadSource(ctx context.Context, vertexPath, fragmentPath string) (Source, error) {
	vs, err := os.ReadFile(vertexPath)
	if err != nil {
		return Source{}, fmt.Errorf("read vertex shader: %w", err)
	}
	fs, err := os.ReadFile(fragmentPath)
	if err != nil {
		return Source{}, fmt.Errorf("read fragment shader: %w", err)
	}
	src := Source{Vertex: string(vs), Fragment: string(fs)}
	if !src.IsGLES() {
		return src, nil
	}
	return Translate(ctx, src)
}

// Translate converts ESSL 3.00 stages to GLSL 4.10 and records how the
// translator renamed the vertex inputs. Stages that are already desktop GLSL
// pass through unchanged.
func Translate(ctx context.Context, src Source) (Source, error) {
	out := Source{Vertex: src.Vertex, Fragment: src.Fragment, names: make(map[string]string)}
	if isESSL(src.Vertex) {
		res, err := translator.Translate(ctx, src.Vertex, graphics.VertexStage)
		if err != nil {
			return Source{}, err
		}
		out.Vertex = res.Code
		for k, v := range res.Names {
			out.names[k] = v
		}
	}
	if isESSL(src.Fragment) {
		res, err := translator.Translate(ctx, src.Fragment, graphics.FragmentStage)
		if err != nil {
			return Source{}, err
		}
		out.Fragment = res.Code
	}
	return out, nil
}
