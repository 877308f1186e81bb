// Package restraints defines the request and response bodies of the
// restraint API.
package restraints

// Output formats accepted by Request.Format and the CLI.
const (
	FormatPhenix = "phenix"
	FormatPyMOL  = "pymol"
	FormatREFMAC = "refmac"
)

// Helix is one helical element of a request annotation.
type Helix struct {
	Selection string   `json:"selection" yaml:"selection"`
	Class     string   `json:"helix_class,omitempty" yaml:"helix_class,omitempty"`
	Sigma     *float64 `json:"restraint_sigma,omitempty" yaml:"restraint_sigma,omitempty"`
	Slack     *float64 `json:"restraint_slack,omitempty" yaml:"restraint_slack,omitempty"`
}

// Strand is one strand after the first of a request sheet.
type Strand struct {
	Selection         string `json:"selection" yaml:"selection"`
	Sense             string `json:"sense,omitempty" yaml:"sense,omitempty"`
	BondStartCurrent  string `json:"bond_start_current" yaml:"bond_start_current"`
	BondStartPrevious string `json:"bond_start_previous" yaml:"bond_start_previous"`
}

// Sheet is one sheet of a request annotation.
type Sheet struct {
	FirstStrand string   `json:"first_strand" yaml:"first_strand"`
	Strands     []Strand `json:"strands" yaml:"strands"`
	Sigma       *float64 `json:"restraint_sigma,omitempty" yaml:"restraint_sigma,omitempty"`
	Slack       *float64 `json:"restraint_slack,omitempty" yaml:"restraint_slack,omitempty"`
}

// Params overrides server-side synthesis options.  Nil fields keep the
// server setting.
type Params struct {
	RestrainHelices            *bool    `json:"restrain_helices,omitempty"`
	RestrainSheets             *bool    `json:"restrain_sheets,omitempty"`
	AlphaOnly                  *bool    `json:"alpha_only,omitempty"`
	SubstituteHeavyForHydrogen *bool    `json:"substitute_heavy_for_hydrogen,omitempty"`
	Sigma                      *float64 `json:"sigma,omitempty"`
	Slack                      *float64 `json:"slack,omitempty"`
	RemoveOutliers             *bool    `json:"remove_outliers,omitempty"`
	Verbose                    *bool    `json:"verbose,omitempty"`
}

// Request is the body of POST /api/v1/restraints, /content and /groups.
type Request struct {
	Name string `json:"name,omitempty"`
	// PDB is the structure as PDB-format text.
	PDB string `json:"pdb" binding:"required"`

	Helices    []Helix `json:"helices,omitempty"`
	Sheets     []Sheet `json:"sheets,omitempty"`
	UseRecords *bool   `json:"use_records,omitempty"`
	Params     *Params `json:"params,omitempty"`

	// Format, when set, renders the restraints as text in Result.Restraints.
	Format string `json:"format,omitempty"`
	// Filter leaves outliers out of the rendered text.  Defaults to true.
	Filter *bool `json:"filter,omitempty"`
	// Prefix scopes the blocks returned by /groups.
	Prefix string `json:"prefix,omitempty"`
}

// Atom identifies one atom of the submitted structure.
type Atom struct {
	Index   int    `json:"index" yaml:"index"`
	Name    string `json:"name" yaml:"name"`
	AltLoc  string `json:"altloc,omitempty" yaml:"altloc,omitempty"`
	ResName string `json:"resname" yaml:"resname"`
	ChainID string `json:"chain_id" yaml:"chain_id"`
	ResSeq  int    `json:"resseq" yaml:"resseq"`
	ICode   string `json:"icode,omitempty" yaml:"icode,omitempty"`
}

// Bond is one restrained donor-acceptor pair.
type Bond struct {
	Donor         Atom    `json:"donor" yaml:"donor"`
	Acceptor      Atom    `json:"acceptor" yaml:"acceptor"`
	DistanceIdeal float64 `json:"distance_ideal" yaml:"distance_ideal"`
	Sigma         float64 `json:"sigma" yaml:"sigma"`
	Slack         float64 `json:"slack" yaml:"slack"`
	Length        float64 `json:"length" yaml:"length"`
	Keep          bool    `json:"keep" yaml:"keep"`
}

// HistogramSlot is one bond-length bin.
type HistogramSlot struct {
	Low   float64 `json:"low" yaml:"low"`
	High  float64 `json:"high" yaml:"high"`
	Count int     `json:"count" yaml:"count"`
}

// Diagnostic is one recoverable condition met during synthesis.
type Diagnostic struct {
	Kind       string   `json:"kind" yaml:"kind"`
	Message    string   `json:"message" yaml:"message"`
	Selections []string `json:"selections,omitempty" yaml:"selections,omitempty"`
	Counts     []int    `json:"counts,omitempty" yaml:"counts,omitempty"`
	Atoms      []string `json:"atoms,omitempty" yaml:"atoms,omitempty"`
}

// Summary counts the bonds of a result.
type Summary struct {
	Total      int `json:"total" yaml:"total"`
	Kept       int `json:"kept" yaml:"kept"`
	Excluded   int `json:"excluded" yaml:"excluded"`
	HelixBonds int `json:"helix_bonds" yaml:"helix_bonds"`
	SheetBonds int `json:"sheet_bonds" yaml:"sheet_bonds"`
}

// Result is the outcome of one synthesis run.
type Result struct {
	RunID      string `json:"run_id" yaml:"run_id"`
	Name       string `json:"name" yaml:"name"`
	IDCode     string `json:"id_code,omitempty" yaml:"id_code,omitempty"`
	DurationMS int64  `json:"duration_ms" yaml:"duration_ms"`
	// Donor is the donor atom name: H, or N under heavy-atom substitution.
	Donor string `json:"donor" yaml:"donor"`

	Summary         Summary         `json:"summary" yaml:"summary"`
	Bonds           []Bond          `json:"bonds" yaml:"bonds"`
	HistogramBefore []HistogramSlot `json:"histogram_before" yaml:"histogram_before"`
	HistogramAfter  []HistogramSlot `json:"histogram_after,omitempty" yaml:"histogram_after,omitempty"`
	Diagnostics     []Diagnostic    `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Skipped         []string        `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	Restraints string `json:"restraints,omitempty" yaml:"restraints,omitempty"`
}

// Groups is the annotation of one structure rendered as restraint groups.
type Groups struct {
	Name    string   `json:"name" yaml:"name"`
	IDCode  string   `json:"id_code,omitempty" yaml:"id_code,omitempty"`
	Helices int      `json:"helices" yaml:"helices"`
	Sheets  int      `json:"sheets" yaml:"sheets"`
	Text    string   `json:"text" yaml:"text"`
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Content is the secondary-structure content of one structure.
type Content struct {
	Name    string  `json:"name" yaml:"name"`
	IDCode  string  `json:"id_code,omitempty" yaml:"id_code,omitempty"`
	Amides  int     `json:"amides" yaml:"amides"`
	Alpha   float64 `json:"alpha" yaml:"alpha"`
	Beta    float64 `json:"beta" yaml:"beta"`
	Helices int     `json:"helices" yaml:"helices"`
	Sheets  int     `json:"sheets" yaml:"sheets"`
}
