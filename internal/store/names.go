package store

import (
	"fmt"
	"regexp"
)

// Env identifies one of the three synchronized environments. Each environment
// owns its own main table and related-entity tables inside a project store and
// is paired with its own remote endpoint.
type Env string

const (
	EnvDev  Env = "dev"
	EnvTest Env = "test"
	EnvProd Env = "prod"
)

// Envs lists all valid environments in their conventional order.
var Envs = []Env{EnvDev, EnvTest, EnvProd}

// Valid reports whether e is one of dev, test or prod.
func (e Env) Valid() bool {
	switch e {
	case EnvDev, EnvTest, EnvProd:
		return true
	}
	return false
}

// RelatedKind identifies one of the five related-entity table families that
// hang off an environment's main table.
type RelatedKind string

const (
	KindInstitution  RelatedKind = "arva_institution"
	KindLegalAct     RelatedKind = "arva_legal_act"
	KindPageContact  RelatedKind = "arva_page_contact"
	KindRelatedPages RelatedKind = "arva_related_pages"
	KindService      RelatedKind = "arva_service"
)

// RelatedKinds lists the five related-entity kinds in schema order.
var RelatedKinds = []RelatedKind{
	KindInstitution,
	KindLegalAct,
	KindPageContact,
	KindRelatedPages,
	KindService,
}

func (k RelatedKind) valid() bool {
	for _, known := range RelatedKinds {
		if k == known {
			return true
		}
	}
	return false
}

var projectNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ValidateProject checks a project name against the store's naming rules.
// Project names become SQL identifier prefixes, so the grammar is closed:
// letters, digits and underscores only, starting with a letter and not ending
// with an underscore.
func ValidateProject(name string) error {
	if name == "" {
		return fmt.Errorf("project name is empty")
	}
	if !projectNameRe.MatchString(name) {
		return fmt.Errorf("invalid project name %q: only letters, digits and underscores are allowed, and the name must start with a letter", name)
	}
	if name[len(name)-1] == '_' {
		return fmt.Errorf("invalid project name %q: must not end with an underscore", name)
	}
	return nil
}

// MainTable derives the environment main table name, {project}_{env}.
//
// All table names interpolated into SQL are produced by this family of
// functions from a validated project name, a closed Env set and a closed
// RelatedKind set; row values always go through bind parameters.
func MainTable(project string, env Env) (string, error) {
	if err := ValidateProject(project); err != nil {
		return "", err
	}
	if !env.Valid() {
		return "", fmt.Errorf("invalid environment %q", env)
	}
	return fmt.Sprintf("%s_%s", project, env), nil
}

// RelatedTable derives a related-entity table name, {project}_{env}_{suffix}.
func RelatedTable(project string, env Env, kind RelatedKind) (string, error) {
	main, err := MainTable(project, env)
	if err != nil {
		return "", err
	}
	if !kind.valid() {
		return "", fmt.Errorf("invalid related-entity kind %q", kind)
	}
	return fmt.Sprintf("%s_%s", main, kind), nil
}

// StagingTable derives the free-form import table name, {project}_initial.
func StagingTable(project string) (string, error) {
	if err := ValidateProject(project); err != nil {
		return "", err
	}
	return project + "_initial", nil
}

// triggerName derives the modified-timestamp trigger name for an environment
// main table. Existing project files depend on this exact derivation.
func triggerName(mainTable string) string {
	return "update_modified_timestamp_" + mainTable
}
