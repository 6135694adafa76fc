package model

// Store is a point-of-sale location ("PV" in the API paths).
type Store struct {
	ID           int64   `json:"id"`
	Department   string  `json:"Departamento"`
	Municipality string  `json:"Municipio"`
	Address      string  `json:"Direccion"`
	Neighborhood string  `json:"Barrio"`
	Latitude     float64 `json:"Latitud"`
	Longitude    float64 `json:"Longitud"`
	WhatsApp     string  `json:"num_whatsapp"`
	ImageURL     string  `json:"URL_image"`
}

func (s Store) RecordID() int64 { return s.ID }

// StoreMeta feeds the department/municipality dropdowns.
type StoreMeta struct {
	Departments         []string            `json:"departamentos"`
	MunicipalitiesByDep map[string][]string `json:"municipiosByDepartamento"`
}
