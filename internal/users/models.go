package users

import "encoding/json"

// Airtable column names. The payroll and legacy project columns come from the
// HR base and are read-only here; the misspelled "Asginacion" is the upstream
// schema's, kept verbatim.
const (
	colEmail        = "Correo Moby"
	colFirstName    = "Nombre"
	colLastName     = "Apellido"
	colPictureURL   = "Foto de Perfil URL"
	colProvince     = "Provincia"
	colLocality     = "Localidad"
	colTechnology   = "Tecnologia Actual"
	colOnboarding   = "Fecha de Alta"
	colSignatureURL = "Firma URL"
	colIsReferent   = "Es Referente?"
	colIsPartner    = "Es Talent Partner?"
	colProjects     = "Proyectos"
	colReferent     = "Referente"
	colPartner      = "Talent Partner"

	colPayrollEmail      = "Correo MOBY (from Datos Personales)"
	colPayrollOnboarding = "Fecha de Alta (from Datos Personales)"
	colPayrollProjects   = "Capacity"

	colLegacyProjectName   = "Proyectos"
	colLegacyProjectClient = "Cliente (from Oportunidades) (de Proyectos)"
	colLegacyProjectStart  = "Fecha de Asginacion"
	colLegacyProjectEnd    = "Fecha de Baja Servicio"

	colProjectName   = "Nombre"
	colProjectClient = "Cliente"
	colProjectStart  = "Fecha inicio"
	colProjectEnd    = "Fecha cierre"
	colProjectUsers  = "Usuarios MobyApp"

	colClientName = "Nombre"
)

// TechField accepts either a bare string or a {"name": "..."} object; both
// shapes occur in client payloads. It is normalized to a plain string at the
// mapping boundary and never inspected again.
type TechField struct {
	Name string
}

func (t *TechField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		t.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	t.Name = obj.Name
	return nil
}

// UpdateUserRequest is the partial update DTO. Pointer fields distinguish
// "absent" (no change) from "present but empty" (clear the value); for link
// arrays an explicit empty array means unlink.
type UpdateUserRequest struct {
	Name          *string    `json:"name"`
	LastName      *string    `json:"lastName"`
	Province      *string    `json:"province"`
	Locality      *string    `json:"locality"`
	Email         *string    `json:"email"`
	CurrentTech   *TechField `json:"currentTech"`
	Projects      *[]string  `json:"proyectos"`
	Referent      *[]string  `json:"referent"`
	TalentPartner *[]string  `json:"talentPartner"`
}

// UnmarshalJSON additionally accepts "projects" as an alias for "proyectos".
func (r *UpdateUserRequest) UnmarshalJSON(b []byte) error {
	type alias UpdateUserRequest
	aux := struct {
		*alias
		ProjectsAlt *[]string `json:"projects"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if r.Projects == nil {
		r.Projects = aux.ProjectsAlt
	}
	return nil
}

// UserSummary is the light DTO returned by the list endpoints. JSON names
// match the original MobyApp API.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"correoMoby"`
	Name     string `json:"nombre"`
	LastName string `json:"apellido"`
}

// UserReference is a flattened projection of a linked user. The nested link
// fields are always null: expansion stops at depth one.
type UserReference struct {
	Name          string      `json:"name"`
	LastName      string      `json:"lastName"`
	Email         string      `json:"email"`
	Projects      interface{} `json:"projects"`
	Referent      interface{} `json:"referent"`
	TalentPartner interface{} `json:"talentPartner"`
}

// UserProfile is the full DTO with link fields denormalized: project ids
// become a name list, referent and talent partner become UserReferences.
type UserProfile struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	Name            string         `json:"name"`
	LastName        string         `json:"lastName"`
	PictureURL      string         `json:"pictureUrl,omitempty"`
	Province        string         `json:"province,omitempty"`
	Locality        string         `json:"locality,omitempty"`
	CurrentTech     string         `json:"currentTech,omitempty"`
	OnboardingDate  string         `json:"onboardingDate,omitempty"`
	SignatureURL    string         `json:"signatureUrl,omitempty"`
	IsReferent      bool           `json:"isReferent"`
	IsTalentPartner bool           `json:"isTalentPartner"`
	Projects        []string       `json:"projects"`
	Referent        *UserReference `json:"referent"`
	TalentPartner   *UserReference `json:"talentPartner"`
}

// MigrateResult reports the outcome of a payroll migration.
// ProjectsCreated counts projects actually created, not merely referenced.
type MigrateResult struct {
	UserID          string                 `json:"newUserId"`
	ProjectsCreated int                    `json:"projectsCreated"`
	Fields          map[string]interface{} `json:"fields"`
}

// textField reads a column as text. Lookup columns arrive as arrays of one
// value, so the first string of an array is accepted too.
func textField(f map[string]interface{}, col string) string {
	switch v := f[col].(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func boolField(f map[string]interface{}, col string) bool {
	b, _ := f[col].(bool)
	return b
}

// linkIDs normalizes a link-column value to a deduplicated id list. The API
// returns []interface{} of id strings, but records written by older tooling
// may hold {id: ...} objects, and fields staged by this service hold []string.
func linkIDs(v interface{}) []string {
	var items []interface{}
	switch t := v.(type) {
	case []interface{}:
		items = t
	case []string:
		items = make([]interface{}, len(t))
		for i, s := range t {
			items[i] = s
		}
	default:
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		var id string
		switch e := it.(type) {
		case string:
			id = e
		case map[string]interface{}:
			id, _ = e["id"].(string)
		}
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
