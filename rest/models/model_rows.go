package models

type Rows struct {
	Rows      []map[string]interface{} `json:"rows"`
	PageState string                   `json:"pageState,omitempty"`
	Count     int                      `json:"count"`
}

type Resources struct {
	Resources []string `json:"resources"`
}
