// Package content loads the game's content bank: quest templates, idle
// pastimes, recruitable pirates, artifacts and encounters. A default bank is
// embedded in the binary; a directory with the same files can replace it.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/quest"
)

// File names a content bank directory must contain.
const (
	QuestsFile     = "quests.yaml"
	IdleQuestsFile = "idle_quests.yaml"
	PiratesFile    = "pirates.yaml"
	ArtifactsFile  = "artifacts.yaml"
	EncountersFile = "encounters.yaml"
)

//go:embed data/*.yaml
var embeddedFS embed.FS

// Bank is a loaded content bank. It is read-only once loaded and safe to
// share between runs.
type Bank struct {
	quests     []quest.Template
	byID       map[int]quest.Template
	idle       []quest.Template
	pirates    []crew.Template
	artifacts  []crew.Artifact
	encounters []encounter.Template
}

// Default returns the embedded bank. It panics if the embedded files are
// broken, which the package tests rule out.
func Default() *Bank {
	b, err := LoadEmbedded()
	if err != nil {
		panic(fmt.Sprintf("embedded content bank: %v", err))
	}
	return b
}

// LoadEmbedded loads the bank compiled into the binary.
func LoadEmbedded() (*Bank, error) {
	sub, err := fs.Sub(embeddedFS, "data")
	if err != nil {
		return nil, err
	}
	return LoadFromFS(sub)
}

// LoadDir loads a bank from a directory on disk.
func LoadDir(dir string) (*Bank, error) {
	return LoadFromFS(os.DirFS(dir))
}

// Open loads the bank in dir, or the embedded one when dir is empty, and
// validates it.
func Open(dir string) (*Bank, error) {
	load := LoadEmbedded
	if dir != "" {
		load = func() (*Bank, error) { return LoadDir(dir) }
	}
	b, err := load()
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content bank: %w", err)
	}
	return b, nil
}

// LoadFromFS loads a bank from the root of fsys. Every file is required.
func LoadFromFS(fsys fs.FS) (*Bank, error) {
	b := &Bank{byID: make(map[int]quest.Template)}

	if err := readYAML(fsys, QuestsFile, &b.quests); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, IdleQuestsFile, &b.idle); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, PiratesFile, &b.pirates); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, ArtifactsFile, &b.artifacts); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, EncountersFile, &b.encounters); err != nil {
		return nil, err
	}

	for _, t := range b.quests {
		if _, dup := b.byID[t.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate quest id %d", QuestsFile, t.ID)
		}
		b.byID[t.ID] = t
	}
	return b, nil
}

func readYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// QuestTemplate returns the quest template with the given id.
func (b *Bank) QuestTemplate(id int) (quest.Template, bool) {
	t, ok := b.byID[id]
	return t, ok
}

// QuestTemplates returns every quest template in file order.
func (b *Bank) QuestTemplates() []quest.Template { return append([]quest.Template(nil), b.quests...) }

// IdleTemplates returns the pastimes a pirate can pick instead of a voyage.
func (b *Bank) IdleTemplates() []quest.Template { return append([]quest.Template(nil), b.idle...) }

// ChainRoots returns the templates that start a quest chain.
func (b *Bank) ChainRoots() []quest.Template {
	var out []quest.Template
	for _, t := range b.quests {
		if t.IsChainRoot {
			out = append(out, t)
		}
	}
	return out
}

// Pirates returns every recruitable pirate.
func (b *Bank) Pirates() []crew.Template { return append([]crew.Template(nil), b.pirates...) }

// PiratesUpToLevel returns the pirates unlocked at the given level.
func (b *Bank) PiratesUpToLevel(level int) []crew.Template {
	var out []crew.Template
	for _, p := range b.pirates {
		if p.Level <= level {
			out = append(out, p)
		}
	}
	return out
}

// Pirate returns the pirate template named name.
func (b *Bank) Pirate(name string) (crew.Template, bool) {
	for _, p := range b.pirates {
		if p.Name == name {
			return p, true
		}
	}
	return crew.Template{}, false
}

// Artifacts returns every artifact.
func (b *Bank) Artifacts() []crew.Artifact { return append([]crew.Artifact(nil), b.artifacts...) }

// Encounters returns every encounter template.
func (b *Bank) Encounters() []encounter.Template {
	return append([]encounter.Template(nil), b.encounters...)
}

// Validate checks every entry of the bank and the links between quest
// templates. All problems are reported at once.
func (b *Bank) Validate() error {
	var errs []error

	for _, t := range b.quests {
		if t.ID < 1 {
			errs = append(errs, fmt.Errorf("quest template %q: id must be at least 1", t.Name))
		}
		if t.Type == quest.TypeIdle {
			errs = append(errs, fmt.Errorf("quest template %d (%s): idle quests belong in %s", t.ID, t.Name, IdleQuestsFile))
		}
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
		if t.NextInChain != 0 {
			if _, ok := b.byID[t.NextInChain]; !ok {
				errs = append(errs, fmt.Errorf("quest template %d (%s): %w %d", t.ID, t.Name, quest.ErrUnknownTemplate, t.NextInChain))
			}
		}
	}
	errs = append(errs, b.checkChains()...)
	if len(b.ChainRoots()) == 0 {
		errs = append(errs, errors.New("no chain roots: the board would stay empty"))
	}

	for _, t := range b.idle {
		if t.Type != quest.TypeIdle {
			errs = append(errs, fmt.Errorf("idle template %q: type must be idle, got %q", t.Name, t.Type))
		}
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	names := make(map[string]bool)
	for _, p := range b.pirates {
		if names[p.Name] {
			errs = append(errs, fmt.Errorf("pirate %q is defined twice", p.Name))
		}
		names[p.Name] = true
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(b.PiratesUpToLevel(1)) == 0 {
		errs = append(errs, errors.New("no level 1 pirates: nobody can sail the first run"))
	}

	for _, a := range b.artifacts {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, e := range b.encounters {
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// checkChains walks every chain from each template and reports loops and
// chains longer than the factory will build.
func (b *Bank) checkChains() []error {
	ids := make([]int, 0, len(b.byID))
	for id := range b.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var errs []error
	for _, id := range ids {
		seen := map[int]bool{id: true}
		depth := 0
		for next := b.byID[id].NextInChain; next != 0; next = b.byID[next].NextInChain {
			if _, ok := b.byID[next]; !ok {
				break
			}
			depth++
			if seen[next] || depth > quest.MaxChainDepth {
				errs = append(errs, fmt.Errorf("quest template %d: %w", id, quest.ErrChainCycle))
				break
			}
			seen[next] = true
		}
	}
	return errs
}

// ChainOf returns the names along the chain starting at id, for display.
func (b *Bank) ChainOf(id int) []string {
	var names []string
	seen := make(map[int]bool)
	for t, ok := b.byID[id]; ok && !seen[t.ID]; t, ok = b.byID[t.NextInChain] {
		seen[t.ID] = true
		names = append(names, t.Name)
	}
	return names
}
