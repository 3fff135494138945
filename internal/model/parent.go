package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParentRef points at the folder containing a file, or at the root.
// The zero value is Root. Root is never stored as a row: it is NULL in the
// database and 0 on the wire.
type ParentRef struct {
	id string
}

// Root is the parent of top-level files and folders.
var Root = ParentRef{}

func Parent(id string) ParentRef {
	return ParseParentRef(id)
}

// ParseParentRef normalises boundary input: "", "0" and whitespace mean Root.
func ParseParentRef(s string) ParentRef {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return Root
	}
	return ParentRef{id: s}
}

func (p ParentRef) IsRoot() bool {
	return p.id == ""
}

// ID returns the parent folder id, empty for Root.
func (p ParentRef) ID() string {
	return p.id
}

func (p ParentRef) String() string {
	if p.IsRoot() {
		return "0"
	}
	return p.id
}

func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(p.id)
}

// UnmarshalJSON accepts a string id, "0", null or a number. Non-zero numbers
// are kept as ids so they simply never resolve to a folder.
func (p *ParentRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Root
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParseParentRef(s)
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid parent reference %s", data)
	}
	if n == 0 {
		*p = Root
		return nil
	}
	*p = ParentRef{id: string(data)}
	return nil
}

// Value stores Root as NULL.
func (p ParentRef) Value() (driver.Value, error) {
	if p.IsRoot() {
		return nil, nil
	}
	return p.id, nil
}

func (p *ParentRef) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Root
	case string:
		*p = ParseParentRef(v)
	case []byte:
		*p = ParseParentRef(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ParentRef", src)
	}
	return nil
}
