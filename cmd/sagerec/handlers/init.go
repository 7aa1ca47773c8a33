package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/sagerec/internal/config"
	"github.com/imamik/sagerec/internal/resources"
)

// InitAnswers are the inputs of a sample document.
type InitAnswers struct {
	TypeName string
	Name     string
	RoleArn  string
	// Parent is the domain ID or model package group, depending on the type.
	Parent string
	Output string
	// WriteConfig also writes a default config file next to the document.
	WriteConfig bool
}

// promptInit asks for missing answers. Replaced in tests.
var promptInit = runInitForm

// Init writes a sample desired-state document. When answers.TypeName is
// empty the values are collected interactively.
func Init(ctx context.Context, answers InitAnswers) error {
	if answers.TypeName == "" {
		if !isInteractiveTTY() {
			return errors.New("--type is required when not running in a terminal")
		}
		if err := promptInit(ctx, &answers); err != nil {
			return err
		}
	}

	doc, err := resources.Sample(answers.TypeName, resources.SampleInput{
		Name:    answers.Name,
		RoleArn: answers.RoleArn,
		Parent:  answers.Parent,
		Tags:    map[string]string{"managed-by": "sagerec"},
	})
	if err != nil {
		return err
	}

	output := answers.Output
	if output == "" {
		output = defaultOutput(answers.TypeName)
	}
	if err := os.WriteFile(output, doc, 0o600); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", output)

	if answers.WriteConfig {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			fmt.Fprintf(stdout, "Kept existing %s\n", config.DefaultFile)
			return nil
		}
		if err := config.Save(config.Default(), config.DefaultFile); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", config.DefaultFile)
	}
	return nil
}

// defaultOutput derives a file name such as "user-profile.yaml" from a type
// name.
func defaultOutput(typeName string) string {
	name := typeName[strings.LastIndex(typeName, ":")+1:]
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String()) + ".yaml"
}

func runInitForm(ctx context.Context, a *InitAnswers) error {
	options := make([]huh.Option[string], 0, len(resources.TypeNames()))
	for _, t := range resources.TypeNames() {
		options = append(options, huh.NewOption(t, t))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Resource type").
				Options(options...).
				Value(&a.TypeName),
			huh.NewInput().
				Title("Name").
				Description("Resource name").
				Placeholder("my-resource").
				Value(&a.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Execution role ARN").
				Description("Leave empty for types without a role").
				Value(&a.RoleArn),
			huh.NewInput().
				Title("Parent").
				Description("Domain ID or model package group, if the type has one").
				Value(&a.Parent),
			huh.NewInput().
				Title("Output file").
				Placeholder("derived from the type").
				Value(&a.Output),
			huh.NewConfirm().
				Title("Write "+config.DefaultFile+"?").
				Value(&a.WriteConfig),
		),
	)
	return form.RunWithContext(ctx)
}
