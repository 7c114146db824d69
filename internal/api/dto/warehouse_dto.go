package dto

// SparePartRequest payload for catalog writes.
type SparePartRequest struct {
	SAPCode             string `json:"sap_code"`
	MaterialDescription string `json:"material_description"`
	DescriptionAr       string `json:"description_ar"`
	Location            string `json:"location"`
	Dept                string `json:"dept"`
	UOM                 string `json:"uom"`
	BalanceOnSAP        int    `json:"balance_on_sap"`
}

// ImportInventoryRequest replaces the whole catalog.
type ImportInventoryRequest struct {
	Parts []SparePartRequest `json:"parts"`
}

// SparePartResponse response.
type SparePartResponse struct {
	SAPCode             string `json:"sap_code"`
	MaterialDescription string `json:"material_description"`
	DescriptionAr       string `json:"description_ar,omitempty"`
	Location            string `json:"location,omitempty"`
	Dept                string `json:"dept,omitempty"`
	UOM                 string `json:"uom,omitempty"`
	BalanceOnSAP        int    `json:"balance_on_sap"`
}
