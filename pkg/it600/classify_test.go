package it600

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, raw string) *deviceRecord {
	t.Helper()
	rec, err := parseRecord([]byte(raw))
	require.NoError(t, err)
	return rec
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   bucket
	}{
		{"gateway", `{"data":{"UniID":"gw"},"sGateway":{"NetworkLANMAC":"00:11:22:33:44:55"}}`, bucketGateway},
		{"gateway without address", `{"data":{"UniID":"gw"},"sGateway":{"NetworkLANMAC":""}}`, bucketNone},
		{"standard thermostat", `{"data":{"UniID":"a"},"sIT600TH":{}}`, bucketClimate},
		{"dual mode thermostat", `{"data":{"UniID":"a"},"sTherS":{}}`, bucketClimate},
		{"thermostat with temperature group", `{"data":{"UniID":"a"},"sIT600TH":{},"sTempS":{}}`, bucketClimate},
		{"alarm group", `{"data":{"UniID":"a"},"sIASZS":{}}`, bucketBinarySensor},
		{"receiver model", `{"data":{"UniID":"a"},"sBasicS":{"ModelIdentifier":"it600Receiver"},"sOnOffS":{}}`, bucketBinarySensor},
		{"temperature", `{"data":{"UniID":"a"},"sTempS":{},"sOnOffS":{}}`, bucketSensor},
		{"on off", `{"data":{"UniID":"a"},"sOnOffS":{},"sLevelS":{}}`, bucketSwitch},
		{"level", `{"data":{"UniID":"a"},"sLevelS":{}}`, bucketCover},
		{"unknown", `{"data":{"UniID":"a"},"sZDO":{}}`, bucketNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(mustRecord(t, tt.record)))
		})
	}
}

func TestPartitionKeepsOrderAndDropsUnknown(t *testing.T) {
	records := []*deviceRecord{
		mustRecord(t, `{"data":{"UniID":"s2"},"sOnOffS":{}}`),
		mustRecord(t, `{"data":{"UniID":"x"}}`),
		mustRecord(t, `{"data":{"UniID":"s1"},"sOnOffS":{}}`),
		mustRecord(t, `{"data":{"UniID":"c"},"sIT600TH":{}}`),
	}
	buckets := partition(records)

	require.Len(t, buckets[bucketSwitch], 2)
	assert.Equal(t, "s2", buckets[bucketSwitch][0].uniqueId())
	assert.Equal(t, "s1", buckets[bucketSwitch][1].uniqueId())
	assert.Len(t, buckets[bucketClimate], 1)
	assert.Empty(t, buckets[bucketNone])
}
