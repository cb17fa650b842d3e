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
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	// Register the GLSL-family code generator.
	_ "github.com/xsclang/xsc/pkg/glsl"
	"github.com/xsclang/xsc/pkg/hlsl/preprocessor"
	"github.com/xsclang/xsc/pkg/report"
	"github.com/xsclang/xsc/pkg/xsc"
)

// compileCmd translates a single shader file.
var compileCmd = &cobra.Command{
	Use:   "compile [flags] shader_file",
	Short: "Cross-compile an HLSL shader.",
	Long:  "Translate an HLSL shader into the requested GLSL-family dialect.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !runCompile(cmd, args[0]) {
			os.Exit(1)
		}
	},
}

func runCompile(cmd *cobra.Command, filename string) bool {
	target, ok := parseTarget(GetString(cmd, "target"))
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown shader target '%s'\n", GetString(cmd, "target"))
		return false
	}
	//
	versionIn, ok := parseInputVersion(GetString(cmd, "shader-in"))
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown input shader version '%s'\n", GetString(cmd, "shader-in"))
		return false
	}
	//
	versionOut, ok := parseOutputVersion(GetString(cmd, "shader-out"))
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown output shader version '%s'\n", GetString(cmd, "shader-out"))
		return false
	}
	//
	input := &xsc.ShaderInput{
		Filename:            filename,
		EntryPoint:          GetString(cmd, "entry"),
		SecondaryEntryPoint: GetString(cmd, "entry2"),
		ShaderVersion:       versionIn,
		Target:              target,
		IncludeHandler:      preprocessor.NewFileIncludeHandler(filename, GetStringArray(cmd, "include")...),
		Macros:              parseDefines(GetStringArray(cmd, "define")),
	}
	//
	sink := os.Stdout
	//
	if name := GetString(cmd, "output"); name != "" {
		f, err := os.Create(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return false
		}
		//
		defer f.Close()
		//
		sink = f
	}
	//
	output := &xsc.ShaderOutput{
		Writer:        sink,
		ShaderVersion: versionOut,
		NameMangling:  xsc.DefaultNameMangling(),
		Formatting:    xsc.DefaultFormatting(),
		Options: xsc.Options{
			PreprocessOnly:   GetFlag(cmd, "preprocess-only"),
			ValidateOnly:     GetFlag(cmd, "validate-only"),
			ShowAST:          GetFlag(cmd, "show-ast"),
			ShowTimes:        GetFlag(cmd, "show-times"),
			Optimize:         GetFlag(cmd, "optimize"),
			ExplicitBinding:  GetFlag(cmd, "explicit-binding"),
			PreserveComments: GetFlag(cmd, "comments"),
		},
	}
	//
	start := time.Now()
	ok = xsc.Compile(input, output, report.StdErrLog())
	//
	if output.Options.ShowTimes {
		logrus.Infof("translation of %s took %s", filename, time.Since(start))
	}
	//
	return ok
}

// parseDefines splits "-D NAME[=VALUE]" arguments into the macro map.
func parseDefines(defines []string) map[string]string {
	macros := make(map[string]string, len(defines))
	//
	for _, d := range defines {
		if name, value, ok := strings.Cut(d, "="); ok {
			macros[name] = value
		} else {
			macros[d] = ""
		}
	}
	//
	return macros
}

func parseTarget(name string) (xsc.ShaderTarget, bool) {
	switch name {
	case "vertex", "vert":
		return xsc.VertexShader, true
	case "tess-control", "hull":
		return xsc.TessellationControlShader, true
	case "tess-evaluation", "domain":
		return xsc.TessellationEvaluationShader, true
	case "geometry", "geom":
		return xsc.GeometryShader, true
	case "fragment", "frag", "pixel":
		return xsc.FragmentShader, true
	case "compute":
		return xsc.ComputeShader, true
	}
	//
	return 0, false
}

func parseInputVersion(name string) (xsc.InputShaderVersion, bool) {
	switch strings.ToUpper(name) {
	case "CG":
		return xsc.Cg, true
	case "HLSL3":
		return xsc.HLSL3, true
	case "HLSL4":
		return xsc.HLSL4, true
	case "HLSL5", "":
		return xsc.HLSL5, true
	case "HLSL6":
		return xsc.HLSL6, true
	}
	//
	return 0, false
}

func parseOutputVersion(name string) (xsc.OutputShaderVersion, bool) {
	versions := map[string]xsc.OutputShaderVersion{
		"GLSL110": xsc.GLSL110, "GLSL120": xsc.GLSL120, "GLSL130": xsc.GLSL130,
		"GLSL140": xsc.GLSL140, "GLSL150": xsc.GLSL150, "GLSL330": xsc.GLSL330,
		"GLSL400": xsc.GLSL400, "GLSL410": xsc.GLSL410, "GLSL420": xsc.GLSL420,
		"GLSL430": xsc.GLSL430, "GLSL440": xsc.GLSL440, "GLSL450": xsc.GLSL450,
		"GLSL460": xsc.GLSL460,
		"ESSL100": xsc.ESSL100, "ESSL300": xsc.ESSL300,
		"ESSL310": xsc.ESSL310, "ESSL320": xsc.ESSL320,
		"VKSL450": xsc.VKSL450,
		"METAL10": xsc.Metal10, "METAL11": xsc.Metal11, "METAL12": xsc.Metal12,
		"METAL20": xsc.Metal20, "METAL21": xsc.Metal21,
	}
	//
	v, ok := versions[strings.ToUpper(name)]
	if !ok && name == "" {
		return xsc.GLSL330, true
	}
	//
	return v, ok
}

func init() {
	rootCmd.AddCommand(compileCmd)
	//
	compileCmd.Flags().StringP("entry", "E", "main", "entry point function")
	compileCmd.Flags().String("entry2", "", "secondary entry point (tessellation)")
	compileCmd.Flags().StringP("target", "T", "vertex", "shader target (vertex|fragment|geometry|tess-control|tess-evaluation|compute)")
	compileCmd.Flags().String("shader-in", "HLSL5", "input shader version (Cg|HLSL3|HLSL4|HLSL5|HLSL6)")
	compileCmd.Flags().String("shader-out", "GLSL330", "output shader version (e.g. GLSL330, ESSL300, VKSL450)")
	compileCmd.Flags().StringP("output", "o", "", "output file (stdout when omitted)")
	compileCmd.Flags().StringArrayP("define", "D", nil, "predefine a macro (NAME[=VALUE])")
	compileCmd.Flags().StringArrayP("include", "I", nil, "add an include search path")
	compileCmd.Flags().BoolP("preprocess-only", "P", false, "only run the preprocessor")
	compileCmd.Flags().Bool("validate-only", false, "only validate, produce no output")
	compileCmd.Flags().Bool("show-ast", false, "dump the decorated AST as JSON")
	compileCmd.Flags().Bool("show-times", false, "report translation timing")
	compileCmd.Flags().BoolP("optimize", "O", false, "strip unreferenced declarations and dead code")
	compileCmd.Flags().Bool("explicit-binding", false, "keep explicit binding slots")
	compileCmd.Flags().Bool("comments", false, "preserve comments in the output")
}
