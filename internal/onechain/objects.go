package onechain

import (
	"fmt"
	"strings"
)

// StructTag is a parsed Move type such as 0x2::coin::Coin<0x2::oct::OCT>.
type StructTag struct {
	Address    string
	Module     string
	Name       string
	TypeParams string
}

// ParseStructTag splits a fully qualified Move type. Generic parameters are kept verbatim.
func ParseStructTag(objectType string) (StructTag, error) {
	base := objectType
	params := ""
	if idx := strings.Index(objectType, "<"); idx >= 0 {
		base = objectType[:idx]
		params = strings.TrimSuffix(objectType[idx+1:], ">")
	}

	parts := strings.Split(base, "::")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return StructTag{}, fmt.Errorf("invalid move type %q", objectType)
	}

	return StructTag{Address: parts[0], Module: parts[1], Name: parts[2], TypeParams: params}, nil
}

// FindCreatedObject returns the id of the first created object whose type is
// module::structName. An empty module matches any module.
func FindCreatedObject(changes []ObjectChange, module, structName string) (string, bool) {
	for _, change := range changes {
		if change.Type != "created" || change.ObjectType == "" {
			continue
		}
		tag, err := ParseStructTag(change.ObjectType)
		if err != nil {
			continue
		}
		if tag.Name == structName && (module == "" || tag.Module == module) {
			return change.ObjectId, true
		}
	}
	return "", false
}

// FindPublishedPackage returns the package id of a publish transaction.
func FindPublishedPackage(changes []ObjectChange) (string, bool) {
	for _, change := range changes {
		if change.Type == "published" && change.PackageId != "" {
			return change.PackageId, true
		}
	}
	return "", false
}
