package listing

// Machines lists machines, newest shipment first.
var Machines = &Spec{
	Table: "machines",
	Joins: []string{
		"LEFT JOIN directories model_dir ON model_dir.id = machines.model_id",
		"LEFT JOIN directories engine_dir ON engine_dir.id = machines.engine_model_id",
		"LEFT JOIN directories transmission_dir ON transmission_dir.id = machines.transmission_model_id",
		"LEFT JOIN directories drive_axle_dir ON drive_axle_dir.id = machines.drive_axle_model_id",
		"LEFT JOIN directories steer_axle_dir ON steer_axle_dir.id = machines.steer_axle_model_id",
	},
	Filters: map[string]Filter{
		"model":              {Column: "machines.model_id", Kind: FilterID},
		"engine_model":       {Column: "machines.engine_model_id", Kind: FilterID},
		"transmission_model": {Column: "machines.transmission_model_id", Kind: FilterID},
		"drive_axle_model":   {Column: "machines.drive_axle_model_id", Kind: FilterID},
		"steer_axle_model":   {Column: "machines.steer_axle_model_id", Kind: FilterID},
		"client_user":        {Column: "machines.client_user_id", Kind: FilterID},
		"service_user":       {Column: "machines.service_user_id", Kind: FilterID},
		"serial_number":      {Column: "machines.serial_number", Kind: FilterExact},
	},
	Search: []string{
		"model_dir.name",
		"engine_dir.name",
		"transmission_dir.name",
		"drive_axle_dir.name",
		"steer_axle_dir.name",
		"machines.serial_number",
	},
	Ordering: map[string]string{
		"shipment_date":      "machines.shipment_date",
		"serial_number":      "machines.serial_number",
		"model":              "machines.model_id",
		"engine_model":       "machines.engine_model_id",
		"transmission_model": "machines.transmission_model_id",
		"drive_axle_model":   "machines.drive_axle_model_id",
		"steer_axle_model":   "machines.steer_axle_model_id",
	},
	Default: []string{"-shipment_date"},
}

// Maintenances lists maintenance events, latest first. The machines join
// is what machine visibility filters on.
var Maintenances = &Spec{
	Table: "maintenances",
	Joins: []string{
		"JOIN machines ON machines.id = maintenances.machine_id",
		"LEFT JOIN directories type_dir ON type_dir.id = maintenances.maintenance_type_id",
		"LEFT JOIN directories company_dir ON company_dir.id = maintenances.service_company_id",
	},
	Filters: map[string]Filter{
		"machine":                           {Column: "maintenances.machine_id", Kind: FilterID},
		"maintenance_type":                  {Column: "maintenances.maintenance_type_id", Kind: FilterID},
		"service_company":                   {Column: "maintenances.service_company_id", Kind: FilterID},
		"machine__serial_number":            {Column: "machines.serial_number", Kind: FilterExact},
		"machine__serial_number__icontains": {Column: "machines.serial_number", Kind: FilterContains},
	},
	Search: []string{
		"type_dir.name",
		"machines.serial_number",
		"company_dir.name",
	},
	Ordering: map[string]string{
		"date":             "maintenances.date",
		"operating_time":   "maintenances.operating_time",
		"maintenance_type": "maintenances.maintenance_type_id",
		"service_company":  "maintenances.service_company_id",
	},
	Default: []string{"-date"},
}

// Claims lists failure claims, latest failure first.
var Claims = &Spec{
	Table: "claims",
	Joins: []string{
		"JOIN machines ON machines.id = claims.machine_id",
		"LEFT JOIN directories unit_dir ON unit_dir.id = claims.failed_unit_id",
		"LEFT JOIN directories method_dir ON method_dir.id = claims.recovery_method_id",
		"LEFT JOIN directories company_dir ON company_dir.id = claims.service_company_id",
	},
	Filters: map[string]Filter{
		"machine":                           {Column: "claims.machine_id", Kind: FilterID},
		"failed_unit":                       {Column: "claims.failed_unit_id", Kind: FilterID},
		"recovery_method":                   {Column: "claims.recovery_method_id", Kind: FilterID},
		"service_company":                   {Column: "claims.service_company_id", Kind: FilterID},
		"machine__serial_number":            {Column: "machines.serial_number", Kind: FilterExact},
		"machine__serial_number__icontains": {Column: "machines.serial_number", Kind: FilterContains},
	},
	Search: []string{
		"unit_dir.name",
		"method_dir.name",
		"machines.serial_number",
		"company_dir.name",
	},
	Ordering: map[string]string{
		"failure_date":    "claims.failure_date",
		"recovery_date":   "claims.recovery_date",
		"downtime":        "claims.downtime",
		"failed_unit":     "claims.failed_unit_id",
		"recovery_method": "claims.recovery_method_id",
	},
	Default: []string{"-failure_date"},
}

// Directories lists reference data grouped by category.
var Directories = &Spec{
	Table: "directories",
	Filters: map[string]Filter{
		"category":    {Column: "directories.category", Kind: FilterExact},
		"entity_name": {Column: "directories.category", Kind: FilterExact},
		"name":        {Column: "directories.name", Kind: FilterExact},
	},
	Search: []string{
		"directories.name",
		"directories.description",
	},
	Ordering: map[string]string{
		"category":    "directories.category",
		"name":        "directories.name",
		"description": "directories.description",
	},
	Default: []string{"category", "name"},
}
