package schema

// Step definitions are frozen once released: a database migrated by an
// older build must reach the same structure as a fresh one. Add new steps
// at the end instead of editing existing ones.

func id() Column {
	return Column{Name: "id", Type: TypeSerial, PrimaryKey: true}
}

func timestamp(name string) Column {
	return Column{Name: name, Type: "TIMESTAMP", Default: "CURRENT_TIMESTAMP"}
}

// userRef points at users and is nulled when the user is deleted.
func userRef(name string) Column {
	return Column{Name: name, Type: "INTEGER", References: &Reference{Table: "users", Column: "id", OnDelete: OnDeleteSetNull}}
}

func text(name string) Column {
	return Column{Name: name, Type: "TEXT"}
}

func varchar(name, size string) Column {
	return Column{Name: name, Type: "VARCHAR(" + size + ")"}
}

func required(c Column) Column {
	c.NotNull = true
	return c
}

func withDefault(c Column, def string) Column {
	c.Default = def
	return c
}

// DefaultSteps is the ordered migration list of the dashboard.
func DefaultSteps() []Step {
	var steps []Step

	// v1: core tables
	steps = append(steps,
		Bookkeeping,
		CreateTable("001_create_users", "users",
			id(),
			Column{Name: "email", Type: "VARCHAR(255)", NotNull: true, Unique: true},
			required(varchar("password_hash", "255")),
			required(varchar("full_name", "255")),
			withDefault(required(varchar("role", "50")), "'researcher'"),
			timestamp("created_at"),
		),
		CreateTable("002_create_tasks", "tasks",
			id(),
			required(varchar("title", "500")),
			required(varchar("assignee", "255")),
			withDefault(required(varchar("status", "50")), "'todo'"),
			withDefault(required(varchar("priority", "50")), "'medium'"),
			Column{Name: "start_date", Type: "DATE"},
			Column{Name: "end_date", Type: "DATE"},
			Column{Name: "deadline", Type: "DATE"},
			text("description"),
			userRef("created_by"),
			timestamp("created_at"),
		),
		CreateTable("003_create_experiments", "experiments",
			id(),
			required(varchar("title", "500")),
			required(varchar("protocol_type", "255")),
			required(varchar("assignee", "255")),
			withDefault(required(varchar("status", "50")), "'progress'"),
			Column{Name: "start_date", Type: "DATE"},
			Column{Name: "end_date", Type: "DATE"},
			text("description"),
			text("results"),
			userRef("created_by"),
			timestamp("created_at"),
		),
		CreateTable("004_create_resources", "resources",
			id(),
			required(varchar("name", "255")),
			required(varchar("category", "100")),
			withDefault(varchar("lot_number", "100"), "''"),
			Column{Name: "initial_stock", Type: "REAL", NotNull: true, Default: "0"},
			Column{Name: "current_stock", Type: "REAL", NotNull: true, Default: "0"},
			required(varchar("unit", "50")),
			withDefault(varchar("status", "50"), "'available'"),
			userRef("created_by"),
			userRef("updated_by"),
			timestamp("created_at"),
			timestamp("updated_at"),
		),
		CreateTable("005_create_resource_usage", "resource_usage",
			id(),
			Column{Name: "resource_id", Type: "INTEGER", NotNull: true, References: &Reference{Table: "resources", Column: "id", OnDelete: OnDeleteCascade}},
			Column{Name: "quantity_used", Type: "REAL", NotNull: true},
			required(text("purpose")),
			Column{Name: "stock_before", Type: "REAL", NotNull: true},
			Column{Name: "stock_after", Type: "REAL", NotNull: true},
			// no action: users with usage history cannot be deleted
			Column{Name: "used_by", Type: "INTEGER", NotNull: true, References: &Reference{Table: "users", Column: "id"}},
			timestamp("used_at"),
		),
	)

	// v2: project hierarchy and comments
	steps = append(steps,
		CreateTable("006_create_projects", "projects",
			id(),
			required(varchar("name", "255")),
			text("description"),
			withDefault(varchar("status", "50"), "'active'"),
			Column{Name: "start_date", Type: "DATE"},
			Column{Name: "end_date", Type: "DATE"},
			varchar("manager", "255"),
			userRef("created_by"),
			timestamp("created_at"),
		),
		CreateTable("007_create_sub_projects", "sub_projects",
			id(),
			Column{Name: "project_id", Type: "INTEGER", NotNull: true, References: &Reference{Table: "projects", Column: "id", OnDelete: OnDeleteCascade}},
			required(varchar("name", "255")),
			text("description"),
			withDefault(varchar("status", "50"), "'active'"),
			Column{Name: "start_date", Type: "DATE"},
			Column{Name: "end_date", Type: "DATE"},
			varchar("lead", "255"),
			userRef("created_by"),
			timestamp("created_at"),
		),
		CreateTable("008_create_categories", "categories",
			id(),
			Column{Name: "sub_project_id", Type: "INTEGER", NotNull: true, References: &Reference{Table: "sub_projects", Column: "id", OnDelete: OnDeleteCascade}},
			required(varchar("name", "255")),
			text("description"),
			withDefault(varchar("color", "7"), "'#3b82f6'"),
			userRef("created_by"),
			timestamp("created_at"),
		),
		// entity_id is deliberately not a foreign key: it may point at any entity kind.
		CreateTable("009_create_comments", "comments",
			id(),
			required(varchar("entity_type", "50")),
			Column{Name: "entity_id", Type: "INTEGER", NotNull: true},
			Column{Name: "user_id", Type: "INTEGER", NotNull: true, References: &Reference{Table: "users", Column: "id", OnDelete: OnDeleteCascade}},
			required(text("content")),
			timestamp("created_at"),
			timestamp("updated_at"),
		),
	)

	// v3: experiment details
	steps = append(steps,
		AddColumn("010_add_experiments_priority", "experiments", withDefault(varchar("priority", "50"), "'medium'")),
		AddColumn("011_add_experiments_tags", "experiments", text("tags")),
		AddColumn("012_add_experiments_experiment_number", "experiments", varchar("experiment_number", "100")),
		AddColumn("013_add_experiments_hypothesis", "experiments", text("hypothesis")),
		AddColumn("014_add_experiments_objectives", "experiments", text("objectives")),
		AddColumn("015_add_experiments_observations", "experiments", text("observations")),
		AddColumn("016_add_experiments_conclusion", "experiments", text("conclusion")),
		AddColumn("017_add_experiments_success_status", "experiments", varchar("success_status", "50")),
		AddColumn("018_add_experiments_next_steps", "experiments", text("next_steps")),
		AddColumn("019_add_experiments_files_link", "experiments", varchar("files_link", "500")),
		AddColumn("020_add_experiments_cost", "experiments", Column{Name: "cost", Type: "DECIMAL(10, 2)"}),
	)

	// v4: optional experiment category, detached when the category is deleted
	steps = append(steps,
		AddColumn("021_add_experiments_category_id", "experiments", Column{
			Name: "category_id", Type: "INTEGER",
			References: &Reference{Table: "categories", Column: "id", OnDelete: OnDeleteSetNull},
		}),
	)

	// v5: indexes for foreign keys, comment lookup and dashboard filters
	steps = append(steps,
		CreateIndex("022_index_sub_projects_project_id", "sub_projects", Index{Name: "idx_sub_projects_project_id", Columns: []string{"project_id"}}),
		CreateIndex("023_index_categories_sub_project_id", "categories", Index{Name: "idx_categories_sub_project_id", Columns: []string{"sub_project_id"}}),
		CreateIndex("024_index_experiments_category_id", "experiments", Index{Name: "idx_experiments_category_id", Columns: []string{"category_id"}}),
		CreateIndex("025_index_comments_entity", "comments", Index{Name: "idx_comments_entity", Columns: []string{"entity_type", "entity_id"}}),
		CreateIndex("026_index_tasks_status", "tasks", Index{Name: "idx_tasks_status", Columns: []string{"status"}}),
		CreateIndex("027_index_experiments_status", "experiments", Index{Name: "idx_experiments_status", Columns: []string{"status"}}),
		CreateIndex("028_index_resource_usage_resource_id", "resource_usage", Index{Name: "idx_resource_usage_resource_id", Columns: []string{"resource_id"}}),
	)

	return steps
}
