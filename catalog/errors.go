package catalog

import (
	errtype "github.com/xgx-io/xgx-errtype"
)

// Catalog violations are themselves errtype instances, so callers can
// match them with errors.Is and log them with errlog.
var (
	ErrDefinition = errtype.MustDefine("DefinitionError", errtype.Attrs{
		"type": errtype.ReadOnly(""),
	}, nil)
	ErrNameRequired = errtype.MustDefine("NameRequiredError", errtype.Attrs{
		"message": "a type name is required",
	}, ErrDefinition)
	ErrDuplicateType = errtype.MustDefine("DuplicateTypeError", errtype.Attrs{
		"message": "type is defined more than once",
	}, ErrDefinition)
	ErrUnknownParent = errtype.MustDefine("UnknownParentError", errtype.Attrs{
		"parent": errtype.ReadOnly(""),
	}, ErrDefinition)
	ErrCycle = errtype.MustDefine("CycleError", errtype.Attrs{
		"cycle": errtype.ReadOnly(""),
	}, ErrDefinition)
	ErrInvalidAttribute = errtype.MustDefine("InvalidAttributeError", nil, ErrDefinition)

	ErrLoad = errtype.MustDefine("CatalogLoadError", errtype.Attrs{
		"path": errtype.ReadOnly(""),
	}, nil)
	ErrUnknownType = errtype.MustDefine("UnknownTypeError", errtype.Attrs{
		"message": "no such type in catalog",
		"type":    errtype.ReadOnly(""),
	}, nil)
)

func typeField(name string) errtype.Attrs {
	return errtype.Attrs{"type": errtype.ReadOnly(name)}
}
