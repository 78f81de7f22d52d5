package rdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// turtlePrefixes maps namespace IRIs to the prefix names used in output.
// Ordered so serialization is byte-stable across runs.
var turtlePrefixes = []struct {
	prefix string
	ns     string
}{
	{"fda", NSFDA},
	{"ex", NSResource},
	{"skos", NSSKOS},
	{"rdf", NSRDF},
	{"rdfs", NSRDFS},
	{"dcterms", NSDCTerms},
}

// WriteTurtle serializes the graph in Turtle form. Triples are grouped by
// subject in first-seen order with predicates in first-seen order per
// subject, so serializing the same graph twice yields identical bytes.
func WriteTurtle(w io.Writer, g *Graph) error {
	for _, p := range turtlePrefixes {
		if _, err := fmt.Fprintf(w, "@prefix %s: <%s> .\n", p.prefix, p.ns); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	type predicateGroup struct {
		predicate IRI
		objects   []Object
	}
	type subjectGroup struct {
		subject    IRI
		predicates []*predicateGroup
		predIndex  map[IRI]*predicateGroup
	}

	var subjects []*subjectGroup
	subjIndex := make(map[IRI]*subjectGroup)

	for _, t := range g.Triples() {
		sg, ok := subjIndex[t.Subject]
		if !ok {
			sg = &subjectGroup{subject: t.Subject, predIndex: make(map[IRI]*predicateGroup)}
			subjIndex[t.Subject] = sg
			subjects = append(subjects, sg)
		}
		pg, ok := sg.predIndex[t.Predicate]
		if !ok {
			pg = &predicateGroup{predicate: t.Predicate}
			sg.predIndex[t.Predicate] = pg
			sg.predicates = append(sg.predicates, pg)
		}
		pg.objects = append(pg.objects, t.Object)
	}

	for _, sg := range subjects {
		if _, err := fmt.Fprintf(w, "%s\n", formatIRI(sg.subject)); err != nil {
			return err
		}
		for i, pg := range sg.predicates {
			terminator := " ;"
			if i == len(sg.predicates)-1 {
				terminator = " ."
			}
			objs := make([]string, len(pg.objects))
			for j, o := range pg.objects {
				objs[j] = formatObject(o)
			}
			line := fmt.Sprintf("    %s %s%s", formatIRI(pg.predicate), strings.Join(objs, ", "), terminator)
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}

// WriteTurtleFile writes the graph to path, creating parent directories and
// overwriting any prior content. One file per run.
func WriteTurtleFile(path string, g *Graph) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := WriteTurtle(f, g); err != nil {
		return fmt.Errorf("failed to serialize graph to %q: %w", path, err)
	}
	return f.Close()
}

func formatIRI(iri IRI) string {
	s := string(iri)
	for _, p := range turtlePrefixes {
		if strings.HasPrefix(s, p.ns) {
			local := s[len(p.ns):]
			if isSafeLocalName(local) {
				return p.prefix + ":" + local
			}
		}
	}
	return "<" + s + ">"
}

// isSafeLocalName reports whether a local name can appear in prefixed form
// without escaping. Slashes are allowed per Turtle local-name escaping
// rules only when escaped, so we fall back to full IRI form for them.
func isSafeLocalName(local string) bool {
	if local == "" {
		return false
	}
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

func formatObject(o Object) string {
	if o.IsIRI {
		return formatIRI(o.IRI)
	}
	lit := `"` + escapeLiteral(o.Literal) + `"`
	if o.Lang != "" {
		lit += "@" + o.Lang
	}
	return lit
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}
