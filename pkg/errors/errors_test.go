package errors

import (
	"errors"
	"testing"
)

func TestNewAndError(t *testing.T) {
	err := New(KindIntegrity, CodeDuplicateNodeID, "merge", "duplicate node id %q", "n1")
	if err.Kind != KindIntegrity {
		t.Errorf("Kind = %v, want %v", err.Kind, KindIntegrity)
	}
	if err.Code != CodeDuplicateNodeID {
		t.Errorf("Code = %v, want %v", err.Code, CodeDuplicateNodeID)
	}
	want := `Integrity/DuplicateNodeId[merge]: duplicate node id "n1"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindRepository, CodeRepositoryLoad, "graph1", cause, "load failed")

	if !errors.Is(err, cause) {
		t.Error("Wrap should make the cause discoverable via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestIsAndKindOf(t *testing.T) {
	err := New(KindValidation, CodeCyclicPlan, "n1", "cycle detected")
	var generic error = err

	if !Is(generic, CodeCyclicPlan) {
		t.Error("Is should match the error's own code")
	}
	if Is(generic, CodeDanglingEdge) {
		t.Error("Is should not match an unrelated code")
	}
	if KindOf(generic) != KindValidation {
		t.Errorf("KindOf = %v, want %v", KindOf(generic), KindValidation)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf should return empty Kind for a non-*Error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(KindIntegrity, CodeDuplicateNodeID, "merge", "duplicate ids").
		WithDetails(map[string]any{"ids": []string{"n1"}, "counts": []int{2}})

	if err.Details["ids"].([]string)[0] != "n1" {
		t.Errorf("Details[ids] = %v", err.Details["ids"])
	}
}

func TestUserMessage(t *testing.T) {
	err := New(KindRendering, CodeUnsupportedFormat, "art1", "unsupported format %q", "xml")
	if got := UserMessage(err); got != `unsupported format "xml"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestListOKAndError(t *testing.T) {
	var list List
	if !list.OK() {
		t.Error("an empty List should be OK")
	}

	list.AddWarning(New(KindValidation, CodeInvalidUpstreamCount, "n1", "no downstreams"))
	if !list.OK() {
		t.Error("warnings alone should not make a List non-OK")
	}

	list.Add(New(KindValidation, CodeCyclicPlan, "n2", "cycle detected"))
	if list.OK() {
		t.Error("an error should make the List non-OK")
	}
	if got := list.Error(); got == "" {
		t.Error("Error() should report the collected errors")
	}
}
