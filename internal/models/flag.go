package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// Flag acepta true/false, 0/1 o null. El backend de Flask manda bool,
// algunas plantillas mandan 0/1.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true":
		*f = true
		return nil
	case "false", "null", `""`:
		*f = false
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("flag inválido %s", b)
	}
	*f = n != 0
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(f))), nil
}

// Attr es el valor de data-faved: "1" o "0".
func (f Flag) Attr() string {
	if f {
		return "1"
	}
	return "0"
}

// LooseFloat acepta número, string numérico o null (0).
type LooseFloat float64

func (l *LooseFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*l = 0
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	if s == "" {
		*l = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("número inválido %s", b)
	}
	*l = LooseFloat(n)
	return nil
}

func (l LooseFloat) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(l), 'f', -1, 64)), nil
}
