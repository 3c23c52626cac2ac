package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guischmitd/piratesim2024/pkg/content"
	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/quest"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [content_dir]\n", os.Args[0])
		os.Exit(1)
	}

	dir := ""
	if len(os.Args) == 2 {
		dir = os.Args[1]
	}

	validator := &BankValidator{}
	if err := validator.validate(dir, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Content bank is valid!")
}

type BankValidator struct {
	errors []string
}

func (v *BankValidator) validate(dir string, out io.Writer) error {
	v.errors = nil

	var bank *content.Bank
	var err error
	if dir == "" {
		fmt.Fprintln(out, "Validating the embedded content bank...")
		bank, err = content.LoadEmbedded()
	} else {
		fmt.Fprintf(out, "Validating %s...\n", dir)
		v.checkStrict(dir)
		bank, err = content.LoadDir(dir)
	}
	if err != nil {
		return fmt.Errorf("failed to load content bank: %w", err)
	}

	if err := bank.Validate(); err != nil {
		for _, e := range unwrapJoined(err) {
			v.addError(e.Error())
		}
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}

	fmt.Fprintf(out, "%d quests, %d chain roots, %d idle pastimes, %d pirates, %d artifacts, %d encounters\n",
		len(bank.QuestTemplates()), len(bank.ChainRoots()), len(bank.IdleTemplates()),
		len(bank.Pirates()), len(bank.Artifacts()), len(bank.Encounters()))
	for _, root := range bank.ChainRoots() {
		fmt.Fprintf(out, "  %d: %s\n", root.ID, strings.Join(bank.ChainOf(root.ID), " → "))
	}
	return nil
}

// checkStrict decodes every file rejecting unknown keys, which the loader
// silently ignores.
func (v *BankValidator) checkStrict(dir string) {
	files := map[string]any{
		content.QuestsFile:     &[]quest.Template{},
		content.IdleQuestsFile: &[]quest.Template{},
		content.PiratesFile:    &[]crew.Template{},
		content.ArtifactsFile:  &[]crew.Artifact{},
		content.EncountersFile: &[]encounter.Template{},
	}
	for name, target := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			// reported by the loader
			continue
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
			v.addError(fmt.Sprintf("%s failed strict YAML decoding: %v", name, err))
		}
	}
}

func (v *BankValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
