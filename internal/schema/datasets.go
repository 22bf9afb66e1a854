package schema

// registry holds the configured bronze datasets keyed by name.
//
// The queries are copied verbatim from the consumer views they read; quoted
// identifiers ("year", "label", "domain") are reserved words in the source
// database. The devices and flexes feeds are deliberately absent: their
// queries are incremental (keyed off the job-tracking table) and this job
// performs full extracts only.
var registry = map[string]Dataset{
	"vehicles": {
		Name:         "vehicles",
		Table:        "strix.vvehicle",
		IDColumn:     "id",
		WindowColumn: "created_datetime",
		Columns: []Column{
			{Name: "id", Kind: KindText, Required: true},
			{Name: "account_id", Kind: KindText},
			{Name: "make", Kind: KindText},
			{Name: "year", Kind: KindInteger},
			{Name: "color", Kind: KindText},
			{Name: "label", Kind: KindText},
			{Name: "model", Kind: KindText},
			{Name: "domain", Kind: KindText},
			{Name: "subtype", Kind: KindText},
			{Name: "engine_number", Kind: KindText},
			{Name: "chassis_number", Kind: KindText},
			{Name: "mileage", Kind: KindReal},
			{Name: "latitude", Kind: KindReal},
			{Name: "longitude", Kind: KindReal},
			{Name: "things", Kind: KindText},
			{Name: "location_datetime", Kind: KindTimestamp},
			{Name: "created_datetime", Kind: KindTimestamp},
		},
		Query: `SELECT id, account_id, make, "year", color, "label", model, "domain", subtype, engine_number, chassis_number, mileage, latitude, longitude, things, location_datetime, created_datetime
FROM strix.vvehicle`,
	},

	"accounts": {
		Name:         "accounts",
		Table:        "strix.vaccount",
		IDColumn:     "id",
		WindowColumn: "created_datetime",
		Columns: []Column{
			{Name: "id", Kind: KindText, Required: true},
			{Name: "identification_type", Kind: KindText},
			{Name: "identification_number", Kind: KindText},
			{Name: "name", Kind: KindText},
			{Name: "active", Kind: KindBool},
			{Name: "country_id", Kind: KindInteger},
			{Name: "created_datetime", Kind: KindTimestamp},
			{Name: "services", Kind: KindText},
			{Name: "last_update_datetime", Kind: KindTimestamp},
		},
		Query: `SELECT id, identification_type, identification_number, "name", active, country_id, created_datetime, services, last_update_datetime
FROM strix.vaccount`,
	},

	"gpses": {
		Name:         "gpses",
		Table:        "strix.vgps",
		IDColumn:     "id",
		WindowColumn: "created_datetime",
		Columns: []Column{
			{Name: "id", Kind: KindText, Required: true},
			{Name: "account_id", Kind: KindText},
			{Name: "make", Kind: KindText},
			{Name: "model", Kind: KindText},
			{Name: "serial_number", Kind: KindText},
			{Name: "parent_id", Kind: KindText},
			{Name: "template_id", Kind: KindText},
			{Name: "created_datetime", Kind: KindTimestamp},
		},
		Query: `SELECT id, account_id, make, model, serial_number, parent_id, template_id, created_datetime
FROM strix.vgps`,
	},

	"homes": {
		Name:         "homes",
		Table:        "strix.vhome",
		IDColumn:     "id",
		WindowColumn: "created_datetime",
		Columns: []Column{
			{Name: "id", Kind: KindText, Required: true},
			{Name: "account_id", Kind: KindText},
			{Name: "label", Kind: KindText},
			{Name: "address_line1", Kind: KindText},
			{Name: "city", Kind: KindText},
			{Name: "state", Kind: KindText},
			{Name: "latitude", Kind: KindReal},
			{Name: "longitude", Kind: KindReal},
			{Name: "things", Kind: KindText},
			{Name: "status_datetime", Kind: KindTimestamp},
			{Name: "created_datetime", Kind: KindTimestamp},
		},
		Query: `SELECT id, account_id, "label", address_line1, city, state, latitude, longitude, things, status_datetime, created_datetime
FROM strix.vhome`,
	},

	"users": {
		Name:     "users",
		Table:    "strix.vuser",
		IDColumn: "id",
		Columns: []Column{
			{Name: "id", Kind: KindText, Required: true},
			{Name: "account_id", Kind: KindText},
			{Name: "username", Kind: KindText},
			{Name: "first_name", Kind: KindText},
			{Name: "last_name", Kind: KindText},
			{Name: "signup_completed", Kind: KindBool},
			{Name: "has_ios", Kind: KindBool},
			{Name: "has_android", Kind: KindBool},
			{Name: "has_device", Kind: KindBool},
			{Name: "last_device_login", Kind: KindTimestamp},
		},
		Query: `SELECT id, account_id, username, first_name, last_name, signup_completed, has_ios, has_android, has_device, last_device_login
FROM strix.vuser`,
	},
}
