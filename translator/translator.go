package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/glharness/graphics"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator(ctx context.Context) (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(ctx)
		if initErr == nil {
			graphics.Logger().Info("shader translator ready")
		}
	})
	if initErr != nil {
		return nil, fmt.Errorf("create shader translator: %w", initErr)
	}
	return translator, nil
}

// Result is a translated stage and the translator's identifier renames.
type Result struct {
	Code  string
	Names map[string]string
}

// Translate converts one ESSL 3.00 stage to GLSL 4.10.
func Translate(ctx context.Context, source string, stage graphics.Stage) (Result, error) {
	t, err := GetTranslator(ctx)
	if err != nil {
		return Result{}, err
	}
	sh, err := t.TranslateShader(source, stage.String(), gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return Result{}, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	res := Result{Code: sh.Code, Names: make(map[string]string, len(sh.Variables))}
	for name, v := range sh.Variables {
		res.Names[name] = v.MappedName
	}
	return res, nil
}
