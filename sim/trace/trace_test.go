package trace

import (
	"testing"
)

func TestSimulationTrace_RecordAdmission_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN an admission record is recorded
	st.RecordAdmission(AdmissionRecord{
		CustomerID: "c_1",
		Category:   "corporate",
		Clock:      12.5,
		QueueDepth: 1,
	})

	// THEN the trace contains one admission record with correct data
	if len(st.Admissions) != 1 {
		t.Fatalf("expected 1 admission, got %d", len(st.Admissions))
	}
	if st.Admissions[0].CustomerID != "c_1" {
		t.Errorf("expected customer ID c_1, got %s", st.Admissions[0].CustomerID)
	}
	if st.Admissions[0].Clock != 12.5 {
		t.Errorf("expected clock 12.5, got %v", st.Admissions[0].Clock)
	}
}

func TestSimulationTrace_RecordDispatch_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN a dispatch record is recorded
	st.RecordDispatch(DispatchRecord{CustomerID: "c_1", Category: "regular", Clock: 5, Wait: 2})

	// THEN the trace contains one dispatch record with correct data
	if len(st.Dispatches) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(st.Dispatches))
	}
	if st.Dispatches[0].Wait != 2 {
		t.Errorf("expected wait 2, got %v", st.Dispatches[0].Wait)
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN multiple records are added
	st.RecordAdmission(AdmissionRecord{CustomerID: "c_1", Clock: 0})
	st.RecordAdmission(AdmissionRecord{CustomerID: "c_2", Clock: 1})
	st.RecordDispatch(DispatchRecord{CustomerID: "c_2", Clock: 1})
	st.RecordDispatch(DispatchRecord{CustomerID: "c_1", Clock: 4})

	// THEN order is preserved
	if len(st.Admissions) != 2 || st.Admissions[0].CustomerID != "c_1" || st.Admissions[1].CustomerID != "c_2" {
		t.Error("admission order not preserved")
	}
	if len(st.Dispatches) != 2 || st.Dispatches[0].CustomerID != "c_2" || st.Dispatches[1].CustomerID != "c_1" {
		t.Error("dispatch order not preserved")
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"", true},
		{"none", true},
		{"decisions", true},
		{"verbose", false},
	}
	for _, tc := range tests {
		if got := IsValidTraceLevel(tc.level); got != tc.valid {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tc.level, got, tc.valid)
		}
	}
}

func TestTraceConfig_Enabled(t *testing.T) {
	if (TraceConfig{}).Enabled() {
		t.Error("empty level must be disabled")
	}
	if (TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("none level must be disabled")
	}
	if !(TraceConfig{Level: TraceLevelDecisions}).Enabled() {
		t.Error("decisions level must be enabled")
	}
}
