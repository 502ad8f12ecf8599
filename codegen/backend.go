package codegen

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gbasic-lang/gbc/diag"
	"github.com/google/uuid"
	"github.com/llir/llvm/ir"
)

// EmitOptions controls backend emission (§4.4.10).
type EmitOptions struct {
	// OutputPath is the final linked executable's path.
	OutputPath string
	// RuntimeSearchRoots are directories to search (release before
	// debug) for the runtime static archive, ancestor-chain first.
	RuntimeSearchRoots []string
}

const runtimeArchiveName = "libgbruntime.a"

// Emit lowers m to an object file via `llc`, locates the runtime static
// library, and links the two (plus system frameworks) via the C
// compiler driver (§4.4.10). The temporary object file is removed on a
// successful link and retained for inspection on failure.
func Emit(m *ir.Module, opts EmitOptions) *diag.Error {
	workDir, err := os.MkdirTemp("", "gbc-"+uuid.NewString())
	if err != nil {
		return diag.WrapCodegen(err, "creating temporary build directory")
	}

	llPath := filepath.Join(workDir, uuid.NewString()+".ll")
	if err := os.WriteFile(llPath, []byte(m.String()), 0o644); err != nil {
		return diag.WrapCodegen(err, "writing IR text")
	}

	objPath := filepath.Join(workDir, uuid.NewString()+".o")
	if err := runLLC(llPath, objPath); err != nil {
		return err
	}

	runtimeArchive, found := locateRuntimeArchive(opts.RuntimeSearchRoots)
	if !found {
		return diag.NewCodegen(nil, "could not locate %s under any search root", runtimeArchiveName)
	}

	if err := link(objPath, runtimeArchive, opts.OutputPath); err != nil {
		return err
	}

	os.Remove(objPath)
	return nil
}

// runLLC invokes the LLVM static compiler to turn textual IR into a
// native relocatable object (§4.4.10 steps 1-2): PIC relocation, default
// optimization, host triple.
func runLLC(llPath, objPath string) *diag.Error {
	cmd := exec.Command("llc", "-relocation-model=pic", "-filetype=obj", "-o", objPath, llPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return diag.WrapCodegen(err, "invoking llc")
	}
	return nil
}

// locateRuntimeArchive walks each root's ancestor chain (§4.4.10 step
// 3), preferring a release/ subdirectory over debug/ when both exist.
func locateRuntimeArchive(roots []string) (string, bool) {
	for _, root := range roots {
		dir := root
		for {
			for _, tier := range []string{"release", "debug", "."} {
				candidate := filepath.Join(dir, tier, runtimeArchiveName)
				if _, err := os.Stat(candidate); err == nil {
					return candidate, true
				}
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return "", false
}

// link invokes the C compiler driver as a linker (§4.4.10 step 4),
// wiring the runtime archive plus the platform libraries the graphics/
// audio/input ABI depends on, and an -rpath back to the archive's
// directory so a dynamically-linked runtime variant still resolves.
func link(objPath, runtimeArchive, outputPath string) *diag.Error {
	rpathDir := filepath.Dir(runtimeArchive)
	args := []string{
		objPath,
		runtimeArchive,
		"-o", outputPath,
		"-lm", "-lpthread",
		"-Wl,-rpath," + rpathDir,
	}
	cmd := exec.Command("cc", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return diag.WrapCodegen(err, "invoking linker")
	}
	return nil
}
