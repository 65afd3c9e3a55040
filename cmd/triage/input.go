package main

import (
	"strconv"
	"strings"

	"github.com/wolfman30/symptom-checker/internal/flow"
	"github.com/wolfman30/symptom-checker/internal/triage"
)

type inputKind int

const (
	inputFreeText inputKind = iota
	inputOption
	inputCommand
)

type input struct {
	kind  inputKind
	value string
}

// Chat commands.
const (
	cmdReset     = "/reset"
	cmdHelpful   = "/helpful"
	cmdUnhelpful = "/unhelpful"
	cmdQuit      = "/quit"
	cmdHelp      = "/help"
)

// resolveInput maps a typed line onto an engine call. A number or an exact
// (case-insensitive) option text picks that option; other text goes in as
// free text where the stage takes it and as a raw option otherwise, so the
// engine decides whether it is known.
func resolveInput(prompt triage.Prompt, line string) input {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "/") {
		return input{kind: inputCommand, value: strings.ToLower(strings.Fields(line)[0])}
	}

	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(prompt.Options) {
		return input{kind: inputOption, value: prompt.Options[n-1]}
	}
	for _, opt := range prompt.Options {
		if strings.EqualFold(opt, line) {
			return input{kind: inputOption, value: opt}
		}
	}

	if def, ok := flow.Lookup(prompt.Stage); ok && def.AcceptsText {
		return input{kind: inputFreeText, value: line}
	}
	return input{kind: inputOption, value: line}
}
