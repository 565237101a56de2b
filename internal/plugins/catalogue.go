package plugins

import (
	"time"

	"vtlint/internal/plugin"
	"vtlint/internal/registry"
)

// Standard returns the default linting catalogue. Order matters: findings of
// a file are reported in this order.
func Standard() registry.Catalogue {
	return registry.Catalogue{
		Name: "standard",
		PreRun: []plugin.Plugin{
			DuplicateOID{base{"check_duplicate_oid", "OIDs must be unique across the corpus"}},
			Dependencies{base{"check_dependencies", "script_dependencies() entries must exist"}},
		},
		PerFile: []plugin.Plugin{
			VersionAndLastModification{base{"check_script_version_and_last_modification_tags", "script_version() and last_modification must be present"}},
			DuplicatedScriptTags{base{"check_duplicated_script_tags", "script tags must not be repeated"}},
			MissingTagSolution{base{"check_missing_tag_solution", "solution_type requires a solution tag"}},
			ScriptFamily{base{"check_script_family", "exactly one known script_family()"}},
			ScriptCategory{base{"check_script_category", "a known script_category()"}},
			ValidOID{base{"check_valid_oid", "OID namespace and vendor ranges"}},
			AddPreferenceType{base{"check_script_add_preference_type", "valid script_add_preference() types"}},
			CallsRecommended{base{"check_script_calls_recommended", "recommended dependency and requirement calls"}},
			ScriptTagForm{base{"check_script_tag_form", "script_tag() argument layout"}},
			ScriptXrefForm{base{"check_script_xref_form", "script_xref() argument layout"}},
			SetGetKBCalls{base{"check_set_get_kb_calls", "named parameters of KB calls"}},
			VTPlacement{base{"check_vt_placement", "detection VTs live in the VT root"}},
			Badwords{base{"check_badwords", "forbidden words"}},
			TodoTbd{base{"check_todo_tbd", "no TODO/TBD/@todo markers"}},
			Tabs{base{"check_tabs", "no tab characters"}},
			Grammar{base{"check_grammar", "common grammar problems"}},
			MalformedDependencies{base{"check_malformed_dependencies", "well formed script_dependencies() lists"}},
			DependencyCategoryOrder{base{"check_dependency_category_order", "dependencies run in earlier categories"}},
			DoubleEndPoints{base{"check_double_end_points", "description tags end with a single point"}},
			Newlines{base{"check_newlines", "LF line endings only"}},
		},
	}
}

// Update returns the catalogue of update mode. now may be nil.
func Update(now func() time.Time) registry.Catalogue {
	return registry.Catalogue{
		Name: "update",
		PerFile: []plugin.Plugin{
			UpdateModificationDate{
				base: base{"update_modification_date", "stamp last_modification and script_version with the current time"},
				Now:  now,
			},
		},
	}
}

// Catalogues bundles both catalogues for registry.SelectMode.
func Catalogues(now func() time.Time) registry.Catalogues {
	return registry.Catalogues{Standard: Standard(), Update: Update(now)}
}
