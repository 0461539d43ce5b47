package claimdocs

/* The claims intake form collects a fixed set of document kinds per
 * claim. The permanent-link listing endpoint returns one descriptor per
 * slot regardless of whether the underlying object exists yet; existence
 * is only checked at fetch time.
 */

// Slot describes one canonical claim document kind
type Slot struct {
	ID          string
	Name        string
	Type        string
	FileType    string
	FileName    string
	Description string
}

var slots = []Slot{
	{
		ID:          "dni-anverso",
		Name:        "DNI (anverso)",
		Type:        "identity",
		FileType:    "dni-anverso",
		FileName:    "dni-anverso.pdf",
		Description: "Front side of the claimant's identity document",
	},
	{
		ID:          "dni-reverso",
		Name:        "DNI (reverso)",
		Type:        "identity",
		FileType:    "dni-reverso",
		FileName:    "dni-reverso.pdf",
		Description: "Back side of the claimant's identity document",
	},
	{
		ID:          "informe-medico",
		Name:        "Informe médico",
		Type:        "medical",
		FileType:    "informe-medico",
		FileName:    "informe-medico.pdf",
		Description: "Medical report supporting the claim",
	},
	{
		ID:          "parte-amistoso",
		Name:        "Parte amistoso",
		Type:        "accident",
		FileType:    "parte-amistoso",
		FileName:    "parte-amistoso.pdf",
		Description: "Mutually agreed accident statement",
	},
	{
		ID:          "atestado-policial",
		Name:        "Atestado policial",
		Type:        "accident",
		FileType:    "atestado-policial",
		FileName:    "atestado-policial.pdf",
		Description: "Police report, when one was filed",
	},
	{
		ID:          "facturas",
		Name:        "Facturas",
		Type:        "financial",
		FileType:    "facturas",
		FileName:    "facturas.pdf",
		Description: "Invoices for incurred expenses",
	},
	{
		ID:          "presupuesto-reparacion",
		Name:        "Presupuesto de reparación",
		Type:        "financial",
		FileType:    "presupuesto-reparacion",
		FileName:    "presupuesto-reparacion.pdf",
		Description: "Repair estimate from the workshop",
	},
	{
		ID:          "poliza",
		Name:        "Póliza",
		Type:        "policy",
		FileType:    "poliza",
		FileName:    "poliza.pdf",
		Description: "Insurance policy document",
	},
}

// Slots returns the canonical document slots in display order
func Slots() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}
