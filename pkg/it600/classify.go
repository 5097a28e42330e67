package it600

import "slices"

type bucket int

const (
	bucketNone bucket = iota
	bucketGateway
	bucketClimate
	bucketBinarySensor
	bucketSensor
	bucketSwitch
	bucketCover
)

func (b bucket) String() string {
	switch b {
	case bucketGateway:
		return "gateway"
	case bucketClimate:
		return "climate"
	case bucketBinarySensor:
		return "binary_sensor"
	case bucketSensor:
		return "sensor"
	case bucketSwitch:
		return "switch"
	case bucketCover:
		return "cover"
	default:
		return "none"
	}
}

// classify assigns a readall record to exactly one bucket. The first matching
// predicate wins.
func classify(r *deviceRecord) bucket {
	switch {
	case r.gatewayMAC() != "":
		return bucketGateway
	case r.IT600TH != nil || r.TherS != nil:
		return bucketClimate
	case r.IASZS != nil || slices.Contains(BinarySensorModels, r.basicModel()):
		return bucketBinarySensor
	case r.TempS != nil:
		return bucketSensor
	case r.OnOffS != nil:
		return bucketSwitch
	case r.LevelS != nil:
		return bucketCover
	default:
		return bucketNone
	}
}

// partition groups records by bucket, keeping their relative order.
func partition(records []*deviceRecord) map[bucket][]*deviceRecord {
	buckets := make(map[bucket][]*deviceRecord)
	for _, r := range records {
		b := classify(r)
		if b == bucketNone {
			continue
		}
		buckets[b] = append(buckets[b], r)
	}
	return buckets
}
