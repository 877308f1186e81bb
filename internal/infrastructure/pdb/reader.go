// Package pdb reads the fixed-column PDB format.  Coordinate records become
// a structure.Model and HELIX/SHEET records become secstr.Records.
package pdb

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
	"github.com/turtacn/hbond-restraints/internal/domain/structure"
	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// maxLine bounds the length of one record.  Standard records are 80
// columns; the slack covers trailing whitespace and CR.
const maxLine = 1024

// Options controls reading.
type Options struct {
	// FirstModelOnly keeps the first MODEL of a multi-model file and ignores
	// the rest.  Without it a second MODEL is an error.
	FirstModelOnly bool
}

// Entry is the content of one PDB file.
type Entry struct {
	Path      string
	IDCode    string
	NumModels int
	Atoms     []structure.Atom
	Records   secstr.Records
}

// Model wraps the entry's atoms in a structure.Model.
func (e *Entry) Model() (*structure.Model, error) {
	return structure.NewModel(e.Atoms)
}

// ReadFile reads a PDB file.  Files ending in ".gz" are decompressed.
func ReadFile(fp string, opts Options) (*Entry, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotFound, "opening structure file")
	}
	defer f.Close()

	var reader io.Reader = f
	if path.Ext(fp) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeStructureParse, "opening gzip stream").WithDetail(fp)
		}
		defer gz.Close()
		reader = gz
	}

	entry, err := Read(reader, opts)
	if err != nil {
		return nil, err
	}
	entry.Path = fp
	if entry.IDCode == "" {
		entry.IDCode = idFromPath(fp)
	}
	return entry, nil
}

// ParseString reads PDB text held in memory.
func ParseString(text string, opts Options) (*Entry, error) {
	return Read(strings.NewReader(text), opts)
}

// Read consumes PDB records from r.  Atom order is preserved.
func Read(r io.Reader, opts Options) (*Entry, error) {
	p := &parser{entry: &Entry{}, opts: opts}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 128), maxLine)
	for scanner.Scan() {
		p.lineNo++
		p.line = bytes.TrimRight(scanner.Bytes(), "\r")
		if err := p.parseLine(); err != nil {
			return nil, err
		}
		if p.done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeStructureParse, "reading structure").
			WithDetailf("after line %d", p.lineNo)
	}
	if len(p.entry.Atoms) == 0 {
		return nil, errors.New(errors.CodeStructureEmpty, "structure contains no atoms")
	}
	if p.entry.NumModels == 0 {
		p.entry.NumModels = 1
	}
	return p.entry, nil
}

// idFromPath guesses a four-character ID code from names like pdb1abc.ent
// or 1abc.pdb.
func idFromPath(fp string) string {
	name := strings.TrimSuffix(path.Base(fp), ".gz")
	name = strings.TrimSuffix(name, path.Ext(name))
	switch {
	case len(name) == 7 && strings.HasPrefix(name, "pdb"):
		return name[3:7]
	case len(name) == 4:
		return name
	}
	return ""
}

type parser struct {
	entry  *Entry
	opts   Options
	line   []byte
	lineNo int
	models int
	done   bool
}

func (p *parser) parseLine() error {
	switch p.cols(1, 6) {
	case "HEADER":
		p.entry.IDCode = p.cols(63, 66)
	case "MODEL":
		p.models++
		p.entry.NumModels = p.models
		if p.models > 1 {
			if !p.opts.FirstModelOnly {
				return p.errorf(errors.CodeMultipleModels, "multiple models not supported")
			}
			p.done = true
		}
	case "ATOM", "HETATM":
		return p.parseAtom()
	case "HELIX":
		return p.parseHelix()
	case "SHEET":
		return p.parseSheet()
	}
	return nil
}

func (p *parser) errorf(code errors.ErrorCode, format string, args ...interface{}) error {
	return errors.Newf(code, format, args...).WithDetailf("line %d: %q", p.lineNo, string(p.line))
}

func (p *parser) parseAtom() error {
	seq, err := p.atoi(23, 26)
	if err != nil {
		return p.errorf(errors.CodeStructureParse, "invalid residue number")
	}
	a := structure.Atom{
		Hetero:  p.cols(1, 6) == "HETATM",
		Name:    p.cols(13, 16),
		AltLoc:  p.cols(17, 17),
		ResName: p.cols(18, 20),
		ChainID: p.cols(22, 22),
		ResSeq:  seq,
		ICode:   p.cols(27, 27),
		Element: strings.ToUpper(p.cols(77, 78)),
	}
	// hybrid-36 serials above 99999 are not decimal; keep zero
	a.Serial, _ = p.atoi(7, 11)
	for k, c := range [][2]int{{31, 38}, {39, 46}, {47, 54}} {
		if a.Coords[k], err = p.atof(c[0], c[1]); err != nil {
			return p.errorf(errors.CodeStructureParse, "invalid coordinate")
		}
	}
	if p.cols(55, 60) != "" {
		a.Occupancy, _ = p.atof(55, 60)
	}
	if p.cols(61, 66) != "" {
		a.BFactor, _ = p.atof(61, 66)
	}
	if a.Element == "" {
		a.Element = structure.GuessElement(p.raw(13, 16))
	}
	p.entry.Atoms = append(p.entry.Atoms, a)
	return nil
}

func (p *parser) residue(res, chain, seq, icode [2]int) (secstr.ResidueID, error) {
	n, err := p.atoi(seq[0], seq[1])
	if err != nil {
		return secstr.ResidueID{}, err
	}
	return secstr.ResidueID{
		ResName: p.cols(res[0], res[1]),
		ChainID: p.cols(chain[0], chain[1]),
		ResSeq:  n,
		ICode:   p.cols(icode[0], icode[1]),
	}, nil
}

func (p *parser) parseHelix() error {
	start, err := p.residue([2]int{16, 18}, [2]int{20, 20}, [2]int{22, 25}, [2]int{26, 26})
	if err != nil {
		return p.errorf(errors.CodeStructureParse, "invalid HELIX start residue")
	}
	end, err := p.residue([2]int{28, 30}, [2]int{32, 32}, [2]int{34, 37}, [2]int{38, 38})
	if err != nil {
		return p.errorf(errors.CodeStructureParse, "invalid HELIX end residue")
	}
	h := secstr.HelixRecord{
		ID:      p.cols(12, 14),
		Start:   start,
		End:     end,
		Class:   1,
		Comment: p.cols(41, 70),
	}
	h.Serial, _ = p.atoi(8, 10)
	if p.cols(39, 40) != "" {
		if h.Class, err = p.atoi(39, 40); err != nil {
			return p.errorf(errors.CodeStructureParse, "invalid HELIX class")
		}
	}
	h.Length, _ = p.atoi(72, 76)
	p.entry.Records.Helices = append(p.entry.Records.Helices, h)
	return nil
}

func (p *parser) parseSheet() error {
	start, err := p.residue([2]int{18, 20}, [2]int{22, 22}, [2]int{23, 26}, [2]int{27, 27})
	if err != nil {
		return p.errorf(errors.CodeStructureParse, "invalid SHEET start residue")
	}
	end, err := p.residue([2]int{29, 31}, [2]int{33, 33}, [2]int{34, 37}, [2]int{38, 38})
	if err != nil {
		return p.errorf(errors.CodeStructureParse, "invalid SHEET end residue")
	}
	st := secstr.StrandRecord{Start: start, End: end}
	st.StrandID, _ = p.atoi(8, 10)
	if p.cols(39, 40) != "" {
		if st.Sense, err = p.atoi(39, 40); err != nil {
			return p.errorf(errors.CodeStructureParse, "invalid SHEET sense")
		}
	}

	if p.cols(51, 54) != "" && p.cols(66, 69) != "" {
		cur, err := p.residue([2]int{46, 48}, [2]int{50, 50}, [2]int{51, 54}, [2]int{55, 55})
		if err != nil {
			return p.errorf(errors.CodeStructureParse, "invalid SHEET registration")
		}
		prev, err := p.residue([2]int{61, 63}, [2]int{65, 65}, [2]int{66, 69}, [2]int{70, 70})
		if err != nil {
			return p.errorf(errors.CodeStructureParse, "invalid SHEET registration")
		}
		st.Registration = &secstr.Registration{
			CurAtom:  p.cols(42, 45),
			Cur:      cur,
			PrevAtom: p.cols(57, 60),
			Prev:     prev,
		}
	}

	numStrands, _ := p.atoi(15, 16)
	p.entry.Records.AddStrand(p.cols(12, 14), numStrands, st)
	return nil
}

func (p *parser) atoi(start, end int) (int, error) {
	return strconv.Atoi(p.cols(start, end))
}

func (p *parser) atof(start, end int) (float64, error) {
	return strconv.ParseFloat(p.cols(start, end), 64)
}

// cols returns the trimmed text of the 1-based, inclusive column range.
// Ranges past the end of a short line are empty.
func (p *parser) cols(start, end int) string {
	return strings.TrimSpace(p.raw(start, end))
}

func (p *parser) raw(start, end int) string {
	rs, re := start-1, end
	if rs < 0 || rs >= len(p.line) || re < rs {
		return ""
	}
	if re > len(p.line) {
		re = len(p.line)
	}
	return string(p.line[rs:re])
}
