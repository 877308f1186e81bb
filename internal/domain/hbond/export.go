package hbond

import (
	"fmt"
	"io"
)

// WritePhenix writes the bonds as a geometry_restraints.edits block of
// custom bond restraints.
func WritePhenix(w io.Writer, t *Table, labels Labels, filter bool) error {
	const sele = "chain '%s' and resid %s and name %s"
	if _, err := io.WriteString(w, "geometry_restraints.edits {\n"); err != nil {
		return err
	}
	for _, row := range t.Rows(filter) {
		d := labels.AtomLabel(row.Donor)
		a := labels.AtomLabel(row.Acceptor)
		_, err := fmt.Fprintf(w, "  bond {\n"+
			"    action = *add\n"+
			"    atom_selection_1 = \""+sele+"\"\n"+
			"    atom_selection_2 = \""+sele+"\"\n"+
			"    distance_ideal = %.3f\n"+
			"    sigma = %.3f\n"+
			"    slack = %.3f\n"+
			"  }\n",
			d.ChainID, d.Resid(), d.Name, a.ChainID, a.Resid(), a.Name,
			row.Distance, row.Sigma, row.Slack)
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

// WritePyMOL writes one PyMOL "dist" command per bond, drawing the bond as
// a dashed line.
func WritePyMOL(w io.Writer, t *Table, labels Labels, filter bool) error {
	const sele = `chain "%s" and resi %s and name %s`
	for _, row := range t.Rows(filter) {
		d := labels.AtomLabel(row.Donor)
		a := labels.AtomLabel(row.Acceptor)
		_, err := fmt.Fprintf(w, "dist "+sele+", "+sele+"\n",
			d.ChainID, d.Resid(), d.Name, a.ChainID, a.Resid(), a.Name)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteREFMAC writes one REFMAC external distance restraint per bond.
func WriteREFMAC(w io.Writer, t *Table, labels Labels, filter bool) error {
	for _, row := range t.Rows(filter) {
		d := labels.AtomLabel(row.Donor)
		a := labels.AtomLabel(row.Acceptor)
		_, err := fmt.Fprintf(w,
			"exte dist first chain %s residue %s atom %s second chain %s residue %s atom %s value %.3f sigma %.2f\n",
			d.ChainID, d.Resid(), d.Name, a.ChainID, a.Resid(), a.Name, row.Distance, row.Sigma)
		if err != nil {
			return err
		}
	}
	return nil
}
