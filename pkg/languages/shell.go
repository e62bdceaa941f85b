package languages

import (
	"github.com/Sumatoshi-tech/hlconv/pkg/hljs"
	"github.com/Sumatoshi-tech/hlconv/pkg/mode"
)

// Bash is the grammar for Bourne-again shell scripts.
func Bash(lib *hljs.Library) *mode.Node {
	variable := &mode.Node{
		ClassName: "variable",
		Variants: []*mode.Node{
			{Begin: mode.Plain(`\$[\w\d#@][\w\d_]*`)},
			{Begin: mode.Plain(`\$\{(.*?)}`)},
		},
	}

	quoted := &mode.Node{
		ClassName: "string",
		Begin:     mode.Plain(`"`),
		End:       mode.Plain(`"`),
		Contains: []*mode.Node{
			hljs.BackslashEscape(),
			variable,
			{ClassName: "variable", Begin: mode.Plain(`\$\(`), End: mode.Plain(`\)`)},
		},
	}

	apos := &mode.Node{ClassName: "string", Begin: mode.Plain(`'`), End: mode.Plain(`'`)}

	return &mode.Node{
		Aliases: []string{"sh", "zsh"},
		Lexemes: mode.Plain(`-?[a-z\._]+`),
		Keywords: mode.Categorized(map[string]string{
			"keyword": "if then else elif fi for while in do done case esac function",
			"literal": "true false",
			"built_in": "break cd continue eval exec exit export getopts hash pwd readonly return shift test " +
				"times trap umask unset alias bind builtin caller command declare echo enable help let local " +
				"logout mapfile printf read readarray source type typeset ulimit unalias",
			"_": "-ne -eq -lt -gt -f -d -e -s -l -a",
		}),
		Contains: []*mode.Node{
			{ClassName: "meta", Begin: mode.Plain(`^#![^\n]+sh\s*$`), Relevance: mode.Int(10)},
			{
				ClassName:   "function",
				Begin:       mode.Plain(`\w[\w\d_]*\s*\(\s*\)\s*\{`),
				ReturnBegin: true,
				Contains:    []*mode.Node{lib.Inherit(hljs.TitleMode(), &mode.Node{Begin: mode.Plain(`\w[\w\d_]*`)})},
				Relevance:   mode.Int(0),
			},
			hljs.HashCommentMode(),
			hljs.NumberMode(),
			quoted,
			apos,
			variable,
		},
	}
}

// Dockerfile is the grammar for Docker build files.
func Dockerfile(_ *hljs.Library) *mode.Node {
	return &mode.Node{
		Aliases:         []string{"docker"},
		CaseInsensitive: mode.Bool(true),
		Keywords: mode.WordList("from maintainer expose env arg user onbuild stopsignal cmd entrypoint " +
			"volume add copy workdir label healthcheck shell run"),
		Contains: []*mode.Node{
			hljs.HashCommentMode(),
			hljs.AposStringMode(),
			hljs.QuoteStringMode(),
			hljs.NumberMode(),
			{
				ClassName:      "preprocessor",
				BeginKeywords:  "run cmd entrypoint volume add copy workdir label healthcheck shell",
				Begin:          mode.Plain(`^\s*(run|cmd|entrypoint|volume|add|copy|workdir|label|healthcheck|shell)\b`),
				EndsWithParent: true,
				Contains: []*mode.Node{
					hljs.QuoteStringMode(),
					{Begin: mode.Plain(`\\\n`)},
				},
			},
		},
		Illegal: mode.Plain(`</`),
	}
}

// Makefile is the grammar for make build files.
func Makefile(_ *hljs.Library) *mode.Node {
	variable := &mode.Node{
		ClassName: "variable",
		Begin:     mode.Plain(`\$\(`),
		End:       mode.Plain(`\)`),
		Contains:  []*mode.Node{hljs.BackslashEscape()},
	}

	return &mode.Node{
		Aliases: []string{"mk", "mak"},
		Keywords: mode.WordList("define endef undefine ifdef ifndef ifeq ifneq else endif include " +
			"-include sinclude override export unexport private vpath"),
		Lexemes: mode.Plain(`[\w-]+`),
		Contains: []*mode.Node{
			hljs.HashCommentMode(),
			{
				ClassName: "string",
				Begin:     mode.Plain(`"`),
				End:       mode.Plain(`"`),
				Contains:  []*mode.Node{hljs.BackslashEscape(), variable},
			},
			variable,
			{
				ClassName: "preprocessor",
				Begin:     mode.Plain(`^[\w]+:\s*$`),
			},
			{
				ClassName: "operator",
				Begin:     mode.Plain(`:=|\?=|\+=|!=|::=`),
			},
			{
				ClassName:      "section",
				Begin:          mode.Plain(`^[^\s]+:`),
				End:            mode.Plain(`$`),
				EndsWithParent: true,
				Contains:       []*mode.Node{variable},
			},
		},
	}
}

// CMake is the grammar for CMake build scripts.
func CMake(_ *hljs.Library) *mode.Node {
	return &mode.Node{
		Aliases:         []string{"cmake.in"},
		CaseInsensitive: mode.Bool(true),
		Keywords: mode.Categorized(map[string]string{
			"keyword": "add_custom_command add_custom_target add_definitions add_dependencies " +
				"add_executable add_library add_subdirectory add_test cmake_minimum_required " +
				"configure_file elseif else endforeach endfunction endif endmacro endwhile " +
				"execute_process file find_library find_package find_path find_program foreach " +
				"function if include include_directories install link_directories macro " +
				"message option project return set set_property set_target_properties " +
				"string target_link_libraries unset while",
			"operator": "equal less greater strless strgreater strequal matches",
		}),
		Contains: []*mode.Node{
			{ClassName: "variable", Begin: mode.Plain(`\${`), End: mode.Plain(`}`)},
			hljs.HashCommentMode(),
			hljs.QuoteStringMode(),
			hljs.NumberMode(),
		},
	}
}
