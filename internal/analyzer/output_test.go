package analyzer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(t *testing.T, timestamp int64) []byte {
	t.Helper()
	event := PromotionScenarioEvent{
		BaseEvent: BaseEvent{
			Timestamp:   timestamp,
			EventType:   TopicPromotionScenario,
			RunID:       "run-1",
			AnalysisID:  "analysis-1",
			ProductName: "oat milk 1l",
		},
		Lift:        0.5,
		Units:       150,
		TotalProfit: 375,
		ProfitDelta: -75,
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func expectedPartition(timestamp int64) string {
	year, month, day := time.Unix(timestamp, 0).Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d", year, int(month), day)
}

func TestPartitionPath(t *testing.T) {
	timestamp := int64(1735731000)
	partition, err := partitionPath(map[string]interface{}{"timestamp": float64(timestamp)})
	require.NoError(t, err)
	assert.Equal(t, expectedPartition(timestamp), partition)

	_, err = partitionPath(map[string]interface{}{"eventType": "x"})
	assert.Error(t, err)
}

func TestJSONOutput_WritesOneLinePerMessage(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "promolift_output")

	timestamp := time.Now().Unix()
	msg := testMessage(t, timestamp)
	require.NoError(t, out.WriteMessage(TopicPromotionScenario, msg))
	require.NoError(t, out.WriteMessage(TopicPromotionScenario, msg))
	require.NoError(t, out.Close())

	path := filepath.Join(dir, "promolift_output", TopicPromotionScenario,
		expectedPartition(timestamp), "data.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	var event PromotionScenarioEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, "oat milk 1l", event.ProductName)
}

func TestCSVOutput_HeaderOncePerFile(t *testing.T) {
	dir := t.TempDir()
	out := NewCSVOutput(dir, "promolift_output")

	timestamp := time.Now().Unix()
	msg := testMessage(t, timestamp)
	require.NoError(t, out.WriteMessage(TopicPromotionScenario, msg))
	require.NoError(t, out.WriteMessage(TopicPromotionScenario, msg))
	require.NoError(t, out.Close())

	path := filepath.Join(dir, "promolift_output", TopicPromotionScenario,
		expectedPartition(timestamp), "data.csv")
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "one header row plus two data rows")

	header := records[0]
	assert.Contains(t, header, "productName")
	assert.Contains(t, header, "lift")
	assert.True(t, sortedStrings(header), "headers should be written in sorted order")
}

func sortedStrings(values []string) bool {
	for i := 1; i < len(values); i++ {
		if values[i-1] > values[i] {
			return false
		}
	}
	return true
}

func TestConsoleOutput(t *testing.T) {
	out := &ConsoleOutput{}
	assert.NoError(t, out.WriteMessage(TopicPromotionScenario, []byte(`{"lift":0}`)))
	assert.NoError(t, out.Close())
}

func TestDecodeEvent_RebuildsTypedEvent(t *testing.T) {
	msg := testMessage(t, 1735731000)

	record, err := decodeEvent(TopicPromotionScenario, msg)
	require.NoError(t, err)

	event, ok := record.(PromotionScenarioEvent)
	require.True(t, ok, "expected a PromotionScenarioEvent, got %T", record)
	assert.Equal(t, 0.5, event.Lift)
	assert.Equal(t, "oat milk 1l", event.ProductName)
}

func TestDecodeEvent_UnknownTopic(t *testing.T) {
	_, err := decodeEvent("mystery_events", []byte(`{}`))
	assert.Error(t, err)
}

func TestGetSchema_AllTopics(t *testing.T) {
	topics := []string{
		TopicPromotionAnalysis,
		TopicPromotionScenario,
		TopicWeeklyGrade,
		TopicHistoricalSummary,
		TopicAnalysisError,
	}
	for _, topic := range topics {
		sh, err := GetSchema(topic)
		require.NoError(t, err, "topic %s", topic)
		assert.NotNil(t, sh)
	}

	_, err := GetSchema("mystery_events")
	assert.Error(t, err)
}
