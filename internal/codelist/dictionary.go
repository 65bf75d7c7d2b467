package codelist

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// List maps codes to their labels.
type List map[string]string

// dictionary is a gml:Dictionary. Only the definitions are read.
type dictionary struct {
	Name    string            `xml:"name"`
	Entries []dictionaryEntry `xml:"dictionaryEntry"`
}

type dictionaryEntry struct {
	Definition definition `xml:"Definition"`
}

type definition struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name"`
	Description string `xml:"description"`
}

// ReadDictionary parses a gml:Dictionary document. Each Definition maps its
// gml:name (the code) to its gml:description (the label).
func ReadDictionary(r io.Reader) (List, error) {
	var d dictionary
	if err := xml.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(err, "decode code list")
	}
	list := make(List, len(d.Entries))
	for _, e := range d.Entries {
		code := strings.TrimSpace(e.Definition.Name)
		if code == "" {
			continue
		}
		list[code] = strings.TrimSpace(e.Definition.Description)
	}
	return list, nil
}

// LoadDictionary reads a code list file.
func LoadDictionary(path string) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open code list %s", path)
	}
	defer f.Close()

	list, err := ReadDictionary(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return list, nil
}

// memorySize estimates the bytes held by a list.
func (l List) memorySize() int64 {
	size := int64(256)
	for k, v := range l {
		size += int64(len(k)+len(v)) + 64
	}
	return size
}
