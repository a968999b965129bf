package nix

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nixworks/nixworks/errs"
)

// entity holds the identity shared by every named container object.
type entity struct {
	id   string
	name string
	typ  string
}

func newEntity(name, typ string) entity {
	return entity{id: uuid.NewString(), name: name, typ: typ}
}

// ID returns the unique identifier of the object.
func (e *entity) ID() string {
	return e.id
}

// Name returns the object name, unique within its scope.
func (e *entity) Name() string {
	return e.name
}

// Type returns the semantic type string of the object.
func (e *entity) Type() string {
	return e.typ
}

// SetType replaces the semantic type string.
func (e *entity) SetType(typ string) {
	e.typ = typ
}

func validateName(name string) error {
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q contains '/'", errs.ErrInvalidName, name)
	}

	return nil
}

// SafeName replaces the '/' characters a name may not contain with '|'.
func SafeName(name string) string {
	return strings.ReplaceAll(name, "/", "|")
}
