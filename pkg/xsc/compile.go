// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package xsc

import (
	"fmt"
	"io"
	"sort"

	"github.com/xsclang/xsc/pkg/hlsl/analyzer"
	"github.com/xsclang/xsc/pkg/hlsl/ast"
	"github.com/xsclang/xsc/pkg/hlsl/parser"
	"github.com/xsclang/xsc/pkg/hlsl/preprocessor"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/util/source"
)

// Generator turns a decorated program into target-language code.  The
// concrete emitters live outside this package; they are selected by the
// requested output version.
type Generator interface {
	Generate(prog *ast.Program, in *ShaderInput, out *ShaderOutput, handler *report.Handler) error
}

// generatorFactory builds the emitter for a given output version.  It is
// installed by the emitter packages to keep the dependency pointing
// outwards.
var generatorFactory func(version OutputShaderVersion) Generator

// RegisterGeneratorFactory installs the emitter factory.  It is called
// once from the emitter package's init function.
func RegisterGeneratorFactory(f func(version OutputShaderVersion) Generator) {
	generatorFactory = f
}

// Compile translates a single shader according to the input and output
// descriptors.  Reports are submitted to the log (which may be nil), and
// the result is true iff no error was reported.
func Compile(in *ShaderInput, out *ShaderOutput, log report.Log) bool {
	handler := report.NewHandler(report.Lexical, log)
	//
	if err := compile(in, out, handler); err != nil {
		if r, ok := err.(*report.Report); ok {
			handler.SubmitReport(r)
		} else {
			handler.SubmitReport(handler.Make(report.Error, source.Area{}, err.Error()))
		}
	}
	//
	return !handler.HasErrors()
}

func compile(in *ShaderInput, out *ShaderOutput, handler *report.Handler) error {
	if !in.ShaderVersion.IsHLSL() {
		return fmt.Errorf("%s input is currently not supported", in.ShaderVersion)
	}
	//
	src, err := readInput(in)
	if err != nil {
		return err
	}
	//
	cg := in.ShaderVersion == Cg || in.Extensions&ExtCgKeywords != 0
	// Preprocess.
	pp := preprocessor.New(handler, in.IncludeHandler, cg)
	//
	for _, name := range sortedMacroNames(in.Macros) {
		pp.Define(name, in.Macros[name])
	}
	//
	preprocessed, ok := pp.Process(src)
	if !ok {
		return nil
	}
	//
	if out.Options.PreprocessOnly {
		_, werr := io.WriteString(out.Writer, preprocessedText(preprocessed))
		return werr
	}
	// Parse.
	handler.SetPhase(report.Syntax)
	prog := parser.ParseSource(preprocessed, handler, cg)
	// Analyze and decorate.
	handler.SetPhase(report.Context)
	analyzer.Analyze(prog, in.EntryPoint, in.SecondaryEntryPoint, in.Target, handler)
	//
	if out.Options.ShowAST {
		if err := dumpAST(prog, out.Writer); err != nil {
			return err
		}
	}
	//
	if handler.HasErrors() || out.Options.ValidateOnly {
		return nil
	}
	// Generate.
	handler.SetPhase(report.Codegen)
	//
	if out.ShaderVersion.IsMetal() {
		return fmt.Errorf("Metal output is currently not supported")
	}
	//
	if generatorFactory == nil {
		return fmt.Errorf("no code generator registered")
	}
	//
	gen := generatorFactory(out.ShaderVersion)
	if gen == nil {
		return fmt.Errorf("no code generator for %s", out.ShaderVersion)
	}
	//
	return gen.Generate(prog, in, out, handler)
}

// readInput opens the shader source from the descriptor's stream, or from
// disk when no stream is given.
func readInput(in *ShaderInput) (*source.Code, error) {
	if in.SourceCode != nil {
		return source.NewCodeFromReader(in.Filename, in.SourceCode)
	}
	//
	return source.ReadCodeFile(in.Filename)
}

// sortedMacroNames returns the predefined macro names in a stable order.
func sortedMacroNames(macros map[string]string) []string {
	names := make([]string, 0, len(macros))
	//
	for name := range macros {
		names = append(names, name)
	}
	//
	sort.Strings(names)
	//
	return names
}

// preprocessedText re-reads the full preprocessed stream as a string.
func preprocessedText(src *source.Code) string {
	var sb []rune
	//
	for {
		chr := src.Next()
		if chr == 0 {
			break
		}
		//
		sb = append(sb, chr)
	}
	//
	return string(sb)
}
