package wordlist

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	manifestPath      = "META-INF/manifest.xml"
	configurationType = "application/vnd.sun.star.configuration-data"
	spellFormat       = "DICT_SPELL"
	originPrefix      = "%origin%/"
)

type manifest struct {
	Entries []struct {
		MediaType string `xml:"media-type,attr"`
		FullPath  string `xml:"full-path,attr"`
	} `xml:"file-entry"`
}

// xcuNode is a node of a LibreOffice configuration file.
type xcuNode struct {
	Name  string    `xml:"name,attr"`
	Nodes []xcuNode `xml:"node"`
	Props []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value"`
	} `xml:"prop"`
}

func (n *xcuNode) find(name string) *xcuNode {
	if n.Name == name {
		return n
	}
	for i := range n.Nodes {
		if found := n.Nodes[i].find(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *xcuNode) prop(name string) string {
	for _, p := range n.Props {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// ExtractOXT copies the spelling dictionaries registered by a LibreOffice
// extension into target. Each file is named after the locale it serves, so
// target can be used as a dictionary path directly. It returns the paths
// written.
func ExtractOXT(ext, target string) ([]string, error) {
	zr, err := zip.OpenReader(ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadExtension, ext, err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	mf, ok := files[manifestPath]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing %s", ErrBadXML, ext, manifestPath)
	}
	var m manifest
	if err := decodeXML(mf, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadXML, ext, err)
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, err
	}

	var written []string
	registry := false
	for _, entry := range m.Entries {
		if entry.MediaType != configurationType {
			continue
		}
		cf, ok := files[entry.FullPath]
		if !ok {
			continue
		}
		var root xcuNode
		if err := decodeXML(cf, &root); err != nil {
			return written, fmt.Errorf("%w: %s: %v", ErrBadXML, entry.FullPath, err)
		}
		dicts := root.find("Dictionaries")
		if dicts == nil {
			continue
		}
		registry = true

		origin := path.Dir(entry.FullPath)
		for _, d := range dicts.Nodes {
			if strings.TrimSpace(d.prop("Format")) != spellFormat {
				continue
			}
			out, err := extractDictionary(files, origin, &d, target)
			written = append(written, out...)
			if err != nil {
				return written, err
			}
		}
	}
	if !registry {
		return nil, fmt.Errorf("%w: %s", ErrBadXML, ext)
	}
	return written, nil
}

func extractDictionary(files map[string]*zip.File, origin string, d *xcuNode, target string) ([]string, error) {
	var written []string
	for _, locale := range strings.Fields(d.prop("Locales")) {
		code := strings.ReplaceAll(locale, "-", "_")
		if code != filepath.Base(code) || code == "." || code == ".." {
			continue
		}
		for _, loc := range strings.Fields(d.prop("Locations")) {
			name := path.Join(origin, strings.TrimPrefix(loc, originPrefix))
			zf, ok := files[name]
			if !ok {
				return written, fmt.Errorf("%w: registry names missing file %s", ErrBadXML, name)
			}
			dst := filepath.Join(target, code+path.Ext(name))
			if err := copyZipFile(zf, dst); err != nil {
				return written, err
			}
			written = append(written, dst)
		}
	}
	return written, nil
}

func decodeXML(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

func copyZipFile(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
