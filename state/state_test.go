package state_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/P8labs/foxctl/state"
)

func Test_FromJson(t *testing.T) {
	t.Parallel()

	stateBytes := []byte(`{
		"items": [
			{
				"mac": "00:00:00:01:02:03",
				"ip": "10.0.0.1",
				"status": "online",
				"firstTs": 1749913040850,
				"lastTs": 1749913040851,
				"count": 2
			}
	]}`)
	appState, err := state.FromJson(stateBytes)
	if err != nil {
		t.Fatal("error deserializing input:", err)
	}

	expectedItems := []state.Item{{
		Mac:     "00:00:00:01:02:03",
		Ip:      "10.0.0.1",
		Status:  "online",
		FirstTs: 1749913040850,
		LastTs:  1749913040851,
		Count:   2,
	}}
	if diff := cmp.Diff(expectedItems, appState.Items); diff != "" {
		t.Fatalf("incorrect deserialisation: %v", diff)
	}
}

func Test_ToJson(t *testing.T) {
	t.Parallel()

	appState := state.NewAppState()
	appState.Items = []state.Item{
		{
			Mac:     "00:00:00:01:02:03",
			Ip:      "10.0.0.1",
			Status:  "online",
			FirstTs: 1749913040850,
			LastTs:  1749913040851,
			Count:   2,
		}, {
			Mac:     "00:00:00:04:05:06",
			Ip:      "",
			Status:  "offline",
			FirstTs: 1749913040852,
			LastTs:  1749913040852,
			Count:   1,
		},
	}

	actualOutputJsonBytes, err := appState.ToJson()
	if err != nil {
		t.Fatal("error serializing input:", err)
	}

	expectedOutputJson := `{"items":[{"mac":"00:00:00:01:02:03","ip":"10.0.0.1","status":"online","firstTs":1749913040850,"lastTs":1749913040851,"count":2},{"mac":"00:00:00:04:05:06","ip":"","status":"offline","firstTs":1749913040852,"lastTs":1749913040852,"count":1}]}`
	if string(actualOutputJsonBytes) != expectedOutputJson {
		t.Fatalf("incorrect output json, expected: \n%v\nactual: \n%v", expectedOutputJson, string(actualOutputJsonBytes))
	}

	if errs := state.ValidateState(actualOutputJsonBytes); len(errs) > 0 {
		t.Fatal("serialized state does not match the schema:", errs)
	}
}

func Test_ToJsonEmpty(t *testing.T) {
	t.Parallel()

	appState := state.NewAppState()
	outputJson, _ := appState.ToJson()
	if !bytes.Equal(outputJson, []byte(`{"items":[]}`)) {
		t.Fatal("unexpected outputJson:", string(outputJson))
	}
}

func Test_FromJsonError(t *testing.T) {
	t.Parallel()

	data := map[string]string{
		"Corrupted start": `
			"items": [
				{"mac": "00:00:00:01:02:03", "ip": "10.0.0.1", "status": "online", "firstTs": 1, "lastTs": 1, "count": 1}
			]
		}`,
		"Corrupted end": `{
			"items": [
				{"mac": "00:00:00:01:02:03", "ip": "10.0.0.1", "status": "online", "firstTs": 1, "lastTs": 1, "count": 1}`,
	}

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			appState, err := state.FromJson([]byte(d))
			if err == nil {
				t.Fatal("no error deserializing illegal input:", appState)
			}
		})
	}
}
