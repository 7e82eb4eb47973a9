package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"

	"github.com/goliatone/go-legaldocs/pkg/store"
)

// errAborted signals the user cancelled a prompt (Ctrl+C).
var errAborted = errors.New("docgen: aborted")

// templatePicker asks the user to choose one of templates.
type templatePicker func(ctx context.Context, templates []store.Template) (store.Template, error)

var (
	pickTemplate templatePicker = surveyPicker
	interactive                 = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

func surveyPicker(ctx context.Context, templates []store.Template) (store.Template, error) {
	if err := ctx.Err(); err != nil {
		return store.Template{}, err
	}
	if len(templates) == 0 {
		return store.Template{}, errors.New("docgen: no templates available, run `docgen seed` first")
	}

	options := make([]string, len(templates))
	for i, tpl := range templates {
		options[i] = tpl.Title
	}

	var choice string
	prompt := &survey.Select{
		Message:  "Modelo de documento:",
		Options:  options,
		PageSize: 12,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return store.Template{}, errAborted
		}
		return store.Template{}, err
	}

	for _, tpl := range templates {
		if tpl.Title == choice {
			return tpl, nil
		}
	}
	return store.Template{}, fmt.Errorf("docgen: unknown template %q", choice)
}
