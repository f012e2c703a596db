package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // generation can take a while on local models
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func chat(sessionId string, messages []map[string]string) map[string]interface{} {
	resp, body, err := sendRequest("POST", "/chat/v1", map[string]interface{}{
		"session_id": sessionId,
		"messages":   messages,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	prettyPrint(out)
	return out
}

func main() {
	color.Cyan("🚀 Symptom Check API Smoke Test\n")

	// 1. Health
	color.Yellow("\n1. Health Check")
	resp, body, err := sendRequest("GET", "/health/v1", nil)
	if err != nil {
		color.Red("Failed (is the server running?): %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var health map[string]interface{}
	json.Unmarshal(body, &health)
	prettyPrint(health)

	// 2. Routine symptom -> full retrieval + generation path
	color.Yellow("\n2. Routine Symptoms (expect primary-care)")
	chat("smoke-session-1", []map[string]string{
		{"role": "user", "text": "I'm 34 and I've had a sore throat and mild fever of 38.2 for two days"},
	})

	// 3. Red-flag symptom -> emergency short-circuit, no LLM call
	color.Yellow("\n3. Red Flags (expect 911, canned message)")
	chat("smoke-session-2", []map[string]string{
		{"role": "user", "text": "My dad has crushing chest pain and shortness of breath"},
	})

	// 4. Follow-up turn on the first session
	color.Yellow("\n4. Follow-up Turn")
	chat("smoke-session-1", []map[string]string{
		{"role": "user", "text": "I'm 34 and I've had a sore throat and mild fever of 38.2 for two days"},
		{"role": "assistant", "text": "(previous answer)"},
		{"role": "user", "text": "Should I take anything for it?"},
	})

	// 5. Session history
	color.Yellow("\n5. Session History")
	resp, body, err = sendRequest("GET", "/chat/v1/history/smoke-session-1?limit=10", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var hist map[string]interface{}
	json.Unmarshal(body, &hist)
	prettyPrint(hist)

	// 6. Validation failure
	color.Yellow("\n6. Malformed Request (expect 400)")
	chat("", []map[string]string{})

	color.Cyan("\n✅ Smoke test complete")
}
