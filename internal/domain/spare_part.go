package domain

// SparePart is a warehouse inventory line keyed by SAP code.
type SparePart struct {
	SAPCode             string
	MaterialDescription string
	DescriptionAr       string
	Location            string
	Dept                string
	UOM                 string
	BalanceOnSAP        int
}
