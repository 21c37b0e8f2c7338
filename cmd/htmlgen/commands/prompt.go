package commands

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
)

// Prompter asks the user for input. Tests replace it with canned answers.
type Prompter interface {
	Input(message, def string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct{}

func (SurveyPrompter) Input(message, def string) (string, error) {
	var out string
	prompt := &survey.Input{Message: message, Default: def}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (SurveyPrompter) Confirm(message string, def bool) (bool, error) {
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return ferrors.WrapError(err, ferrors.CategoryRuntime, "prompt failed").Build()
}

var errAborted = ferrors.ValidationError("aborted by user").Build()
