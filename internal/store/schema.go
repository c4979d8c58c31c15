package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Tables are declared directly against ent's migration schema; every event
// table shares the id/sequence/timestamp prefix.
var (
	accountsColumns = []*schema.Column{
		{Name: "username", Type: field.TypeString},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "profile", Type: field.TypeBytes},
		{Name: "catalog", Type: field.TypeBytes},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	accountsTable = &schema.Table{
		Name:       "accounts",
		Columns:    accountsColumns,
		PrimaryKey: []*schema.Column{accountsColumns[0]},
	}

	globalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	globalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    globalSequenceColumns,
		PrimaryKey: []*schema.Column{globalSequenceColumns[0]},
	}

	llmRequestEventsTable = eventTable("llm_request_events",
		[]*schema.Column{
			{Name: "provider", Type: field.TypeString},
			{Name: "model", Type: field.TypeString},
			{Name: "purpose", Type: field.TypeString},
			{Name: "input_tokens", Type: field.TypeInt, Default: 0},
			{Name: "output_tokens", Type: field.TypeInt, Default: 0},
			{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
			{Name: "success", Type: field.TypeBool},
			{Name: "error_message", Type: field.TypeString, Default: ""},
			{Name: "request_body", Type: field.TypeString, Default: ""},
			{Name: "response_body", Type: field.TypeString, Default: ""},
		},
		"purpose",
	)

	attemptEventsTable = eventTable("attempt_events",
		[]*schema.Column{
			{Name: "username", Type: field.TypeString},
			{Name: "attempt_id", Type: field.TypeString},
			{Name: "subject", Type: field.TypeString},
			{Name: "topic", Type: field.TypeString},
			{Name: "lesson_id", Type: field.TypeString, Default: ""},
			{Name: "questions", Type: field.TypeInt},
			{Name: "correct", Type: field.TypeInt},
			{Name: "base_xp", Type: field.TypeInt},
			{Name: "final_xp", Type: field.TypeInt},
			{Name: "stars", Type: field.TypeInt, Default: 0},
			{Name: "fallback", Type: field.TypeBool, Default: false},
		},
		"username",
	)

	rewardEventsTable = eventTable("reward_events",
		[]*schema.Column{
			{Name: "username", Type: field.TypeString},
			{Name: "kind", Type: field.TypeString},
			{Name: "detail", Type: field.TypeString, Default: ""},
			{Name: "amount", Type: field.TypeInt, Default: 0},
		},
		"username",
	)

	tables = []*schema.Table{
		accountsTable,
		globalSequenceTable,
		llmRequestEventsTable,
		attemptEventsTable,
		rewardEventsTable,
	}
)

// eventTable builds an append-only event table. Extra columns follow the
// shared prefix, and each name in indexed gets its own index.
func eventTable(name string, fields []*schema.Column, indexed ...string) *schema.Table {
	cols := append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}, fields...)

	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
		},
	}
	for _, col := range indexed {
		for _, c := range cols {
			if c.Name == col {
				t.Indexes = append(t.Indexes, &schema.Index{Name: name + "_" + col, Columns: []*schema.Column{c}})
			}
		}
	}
	return t
}
