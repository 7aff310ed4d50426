package io

import "testing"

const sampleSolomon = `R101

VEHICLE
NUMBER     CAPACITY
  25         200

CUSTOMER
CUST NO.  XCOORD.   YCOORD.    DEMAND   READY TIME  DUE DATE   SERVICE TIME

    0      35.0      35.0          0          0       230          0
    1      41.0      49.0         10          0       204         10
    2      35.0      17.0          7          0       202         10
`

func TestParseSolomon(t *testing.T) {
	pi, err := parseSolomon(splitLines(sampleSolomon))
	if err != nil {
		t.Fatalf("parseSolomon: %v", err)
	}
	if pi.vehicleCapacity != 200 {
		t.Errorf("capacity = %d, want 200", pi.vehicleCapacity)
	}
	if pi.nbVehiclesInFile != 25 {
		t.Errorf("nbVehiclesInFile = %d, want 25", pi.nbVehiclesInFile)
	}
	if len(pi.clients) != 3 {
		t.Fatalf("got %d clients, want 3 (depot + 2)", len(pi.clients))
	}
	if pi.clients[0].demand != 0 || pi.clients[0].earliest != 0 || pi.clients[0].service != 0 {
		t.Errorf("depot invariants violated: %+v", pi.clients[0])
	}
	// Coordinates/times are scaled x10.
	if pi.clients[1].x != 410 || pi.clients[1].y != 490 {
		t.Errorf("client 1 coords = (%v, %v), want (410, 490)", pi.clients[1].x, pi.clients[1].y)
	}
	if pi.clients[1].latest != 2040 {
		t.Errorf("client 1 latest = %d, want 2040", pi.clients[1].latest)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
