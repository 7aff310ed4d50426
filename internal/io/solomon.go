package io

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseSolomon parses the classic Solomon VRPTW layout: a name line, a
// blank/comment line, "VEHICLE", "NUMBER CAPACITY", the numbers, four
// header lines, then one "id x y demand earliest latest service" record
// per client (depot first). Coordinates and times are scaled x10 so the
// rest of the algorithm can stay in integer arithmetic while keeping
// one-decimal precision (spec §6), matching Params.cpp's VRPTW branch.
func parseSolomon(lines []string) (*parsedInstance, error) {
	if len(lines) < 10 {
		return nil, fmt.Errorf("parse solomon: file too short (%d lines)", len(lines))
	}

	fields := func(idx int) []string { return strings.Fields(lines[idx]) }

	nc := fields(4) // "NUMBER    CAPACITY" values line
	if len(nc) < 2 {
		return nil, fmt.Errorf("parse solomon: expected NUMBER CAPACITY values on line 5, got %q", lines[4])
	}
	nbVehicles, err := strconv.Atoi(nc[0])
	if err != nil {
		return nil, fmt.Errorf("parse solomon: vehicle count: %w", err)
	}
	capacity, err := strconv.Atoi(nc[1])
	if err != nil {
		return nil, fmt.Errorf("parse solomon: vehicle capacity: %w", err)
	}

	var clients []rawClient
	for i := 9; i < len(lines); i++ {
		f := strings.Fields(lines[i])
		if len(f) < 7 {
			continue
		}
		vals := make([]float64, 7)
		for k, tok := range f[:7] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("parse solomon: client record %q: %w", lines[i], err)
			}
			vals[k] = v
		}
		clients = append(clients, rawClient{
			custNum:  int(vals[0]),
			x:        vals[1] * 10,
			y:        vals[2] * 10,
			demand:   int(vals[3]),
			earliest: int(vals[4] * 10),
			latest:   int(vals[5] * 10),
			service:  int(vals[6] * 10),
		})
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("parse solomon: no client records found")
	}

	if clients[0].earliest != 0 {
		return nil, fmt.Errorf("parse solomon: time window for depot should start at 0")
	}
	if clients[0].service != 0 {
		return nil, fmt.Errorf("parse solomon: service duration for depot should be 0")
	}
	if clients[0].demand != 0 {
		return nil, fmt.Errorf("parse solomon: depot demand is not zero, but is instead: %d", clients[0].demand)
	}

	return &parsedInstance{
		clients:          clients,
		vehicleCapacity:  capacity,
		nbVehiclesInFile: nbVehicles,
		durationLimit:    math.MaxInt32,
	}, nil
}
