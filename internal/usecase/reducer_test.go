//go:build !integration

package usecase_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/usecase"
)

func TestBuildPrompt_EmptySnapshot(t *testing.T) {
	got, err := usecase.BuildPrompt("hello", nil)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	want := "User Message: 'hello'\n\n--- DATABASE STATE ---\n[]\n--- END STATE ---"
	if got != want {
		t.Fatalf("prompt mismatch\nwant %q\n got %q", want, got)
	}
	if !strings.Contains(got, "--- DATABASE STATE ---\n[]\n") {
		t.Fatalf("empty snapshot block missing: %q", got)
	}
}

func TestBuildPrompt_IncludesEveryJobVerbatim(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	jobs := []*model.Job{
		{ID: 7, CustomerName: strPtr("Ramesh"), MotorSpecs: "3HP 1440RPM, 'single phase'", Status: model.JobStatusPending, Price: floatPtr(1500.5), DateCreated: created},
		{ID: 3, MotorSpecs: "Ceiling fan \"Usha\" 48in", Status: model.JobStatusPending, PaymentReceived: true, DateCreated: created},
	}
	got, err := usecase.BuildPrompt("what is pending?", jobs)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if !strings.HasPrefix(got, "User Message: 'what is pending?'\n") {
		t.Fatalf("utterance not first: %q", got)
	}

	start := strings.Index(got, "--- DATABASE STATE ---\n")
	end := strings.Index(got, "\n--- END STATE ---")
	if start < 0 || end < 0 || end < start {
		t.Fatalf("markers missing: %q", got)
	}
	block := got[start+len("--- DATABASE STATE ---\n") : end]

	var rows []map[string]any
	if err := json.Unmarshal([]byte(block), &rows); err != nil {
		t.Fatalf("snapshot is not JSON: %v (%q)", err, block)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	// store order is preserved
	for i, j := range jobs {
		r := rows[i]
		if r["job_id"] != float64(j.ID) {
			t.Fatalf("row %d job_id = %v, want %d", i, r["job_id"], j.ID)
		}
		if r["status"] != string(j.Status) {
			t.Fatalf("row %d status = %v", i, r["status"])
		}
		if r["motor_specs"] != j.MotorSpecs {
			t.Fatalf("row %d motor_specs = %v, want %q", i, r["motor_specs"], j.MotorSpecs)
		}
		if r["date_created"] != "2024-03-01 09:30:00" {
			t.Fatalf("row %d date_created = %v", i, r["date_created"])
		}
	}
	if rows[0]["customer_name"] != "Ramesh" || rows[0]["price"] != 1500.5 || rows[0]["payment_received"] != float64(0) {
		t.Fatalf("row 0 optional fields wrong: %+v", rows[0])
	}
	if rows[1]["customer_name"] != nil || rows[1]["price"] != nil || rows[1]["payment_received"] != float64(1) {
		t.Fatalf("row 1 optional fields wrong: %+v", rows[1])
	}
}

func TestNormalizeModelOutput_FencesAreStripped(t *testing.T) {
	bodies := []string{
		`{"reply": "Hi there"}`,
		`{"reply":"Job 4 is still pending.","extra":true}`,
		`{"reply": "Line one\nline two"}`,
	}
	wrappers := []func(string) string{
		func(s string) string { return s },
		func(s string) string { return "```json\n" + s + "\n```" },
		func(s string) string { return "```\n" + s + "\n```" },
		func(s string) string { return "  ```JSON " + s + "```  \n" },
		func(s string) string { return "```json\n" + s },
		func(s string) string { return "\n\t" + s + "\n" },
		func(s string) string { return "```json\n```json\n" + s + "\n```\n```" },
		func(s string) string { return "```\n```json\n```\n" + s + "\n```\n```\n```" },
	}
	for _, body := range bodies {
		want, err := usecase.NormalizeModelOutput(body)
		if err != nil {
			t.Fatalf("unwrapped %q: %v", body, err)
		}
		for i, wrap := range wrappers {
			got, err := usecase.NormalizeModelOutput(wrap(body))
			if err != nil {
				t.Fatalf("wrapper %d on %q: %v", i, body, err)
			}
			if got != want {
				t.Fatalf("wrapper %d: want %+v got %+v", i, want, got)
			}
		}
	}
}

func TestNormalizeModelOutput_Scenario(t *testing.T) {
	got, err := usecase.NormalizeModelOutput("```json\n{\"reply\": \"Hi there\"}\n```")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Reply != "Hi there" {
		t.Fatalf("reply = %q", got.Reply)
	}
}

func TestNormalizeModelOutput_EmptyYieldsFallbackText(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t", "``````", "```json\n```", "```\n\n```"} {
		got, err := usecase.NormalizeModelOutput(raw)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", raw, err)
		}
		if got.Reply != model.ReplyEmpty {
			t.Fatalf("%q: reply = %q", raw, got.Reply)
		}
	}
}

func TestNormalizeModelOutput_Malformed(t *testing.T) {
	cases := []string{
		"Sure! Job 4 is pending.",
		`{"reply": "unterminated`,
		`{"answer": "no reply key"}`,
		`{"reply": 42}`,
		`{"reply": null}`,
		`["reply"]`,
		`"just a string"`,
		"```json\n{reply: 'single quotes'}\n```",
	}
	for _, raw := range cases {
		_, err := usecase.NormalizeModelOutput(raw)
		if !errors.Is(err, domain.ErrMalformedModelOutput) {
			t.Fatalf("%q: want ErrMalformedModelOutput, got %v", raw, err)
		}
	}
}

func ExampleStripCodeFence() {
	fmt.Println(usecase.StripCodeFence("```json\n{\"reply\": \"Done\"}\n```"))
	// Output: {"reply": "Done"}
}
