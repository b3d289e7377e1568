package shader

import (
	"fmt"

	"github.com/richinsley/glharness/graphics"
)

// CompileError carries the driver log of a stage that failed to compile.
type CompileError struct {
	Stage graphics.Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError carries the driver log of a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// compileStage creates and compiles one shader object. On failure the object
// is deleted and the log is reported.
func compileStage(dev graphics.Device, stage graphics.Stage, source string) (uint32, error) {
	sh := dev.CreateShader(stage)
	dev.ShaderSource(sh, source)
	dev.CompileShader(sh)
	if !dev.ShaderCompiled(sh) {
		err := &CompileError{Stage: stage, Log: dev.ShaderInfoLog(sh)}
		dev.DeleteShader(sh)
		graphics.Logger().Warn("shader compile failed", "stage", stage.String(), "log", err.Log)
		return 0, err
	}
	return sh, nil
}
