package io

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// tokenScanner walks a flat token stream the way Params.cpp's
// `inputFile >> content` chain does, ignoring line boundaries — TSPLIB
// files are whitespace-delimited, not line-delimited, for most sections.
type tokenScanner struct {
	toks []string
	pos  int
}

func newTokenScanner(lines []string) *tokenScanner {
	ts := &tokenScanner{}
	for _, l := range lines {
		ts.toks = append(ts.toks, strings.Fields(l)...)
	}
	return ts
}

func (ts *tokenScanner) next() (string, bool) {
	if ts.pos >= len(ts.toks) {
		return "", false
	}
	t := ts.toks[ts.pos]
	ts.pos++
	return t, true
}

func (ts *tokenScanner) nextInt() (int, error) {
	t, ok := ts.next()
	if !ok {
		return 0, fmt.Errorf("unexpected end of file")
	}
	v, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q: %w", t, err)
	}
	return v, nil
}

func (ts *tokenScanner) nextFloat() (float64, error) {
	t, ok := ts.next()
	if !ok {
		return 0, fmt.Errorf("unexpected end of file")
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q: %w", t, err)
	}
	return v, nil
}

// parseTSPLIB parses the TSPLIB-style keyword-driven layout of spec §6:
// DIMENSION, CAPACITY, VEHICLES/SALESMAN, EDGE_WEIGHT_TYPE/FORMAT/SECTION,
// NODE_COORD_SECTION, DEMAND_SECTION, SERVICE_TIME(_SECTION),
// TIME_WINDOW_SECTION, RELEASE_TIME_SECTION, DEPOT_SECTION, DISTANCE, EOF.
// Ported from the keyword-loop in Params.cpp's non-VRPTW branch.
func parseTSPLIB(lines []string) (*parsedInstance, error) {
	ts := newTokenScanner(lines)

	pi := &parsedInstance{
		vehicleCapacity:  math.MaxInt32,
		nbVehiclesInFile: math.MaxInt32,
		durationLimit:    math.MaxInt32,
	}

	nbClients := 0
	serviceTimeData := 0
	hasServiceTimeSection := false
	var clients []rawClient

	ensureClients := func() {
		if clients == nil {
			clients = make([]rawClient, nbClients+1)
			for i := range clients {
				clients[i].custNum = i
			}
		}
	}

	for {
		tok, ok := ts.next()
		if !ok {
			return nil, fmt.Errorf("parse tsplib: reached end of file without EOF keyword")
		}
		switch tok {
		case "EOF":
			goto done
		case "NAME", "COMMENT", "TYPE":
			// keyword ":" value (value possibly multiple tokens up to next keyword) — skip one token (":" or "=") plus the value token.
			ts.next()
			ts.next()
		case "DIMENSION":
			ts.next() // ":"
			n, err := ts.nextInt()
			if err != nil {
				return nil, fmt.Errorf("parse tsplib: DIMENSION: %w", err)
			}
			nbClients = n - 1
		case "EDGE_WEIGHT_TYPE":
			ts.next()
			v, _ := ts.next()
			pi.isExplicitMatrix = v == "EXPLICIT"
		case "EDGE_WEIGHT_FORMAT":
			ts.next()
			v, _ := ts.next()
			if !pi.isExplicitMatrix {
				return nil, fmt.Errorf("parse tsplib: EDGE_WEIGHT_FORMAT can only be used with EDGE_WEIGHT_TYPE : EXPLICIT")
			}
			if v != "FULL_MATRIX" {
				return nil, fmt.Errorf("parse tsplib: EDGE_WEIGHT_FORMAT only supports FULL_MATRIX")
			}
		case "CAPACITY":
			ts.next()
			v, err := ts.nextInt()
			if err != nil {
				return nil, fmt.Errorf("parse tsplib: CAPACITY: %w", err)
			}
			pi.vehicleCapacity = v
		case "VEHICLES", "SALESMAN":
			ts.next()
			v, err := ts.nextInt()
			if err != nil {
				return nil, fmt.Errorf("parse tsplib: %s: %w", tok, err)
			}
			pi.nbVehiclesInFile = v
		case "DISTANCE":
			ts.next()
			v, err := ts.nextInt()
			if err != nil {
				return nil, fmt.Errorf("parse tsplib: DISTANCE: %w", err)
			}
			pi.durationLimit = v
			pi.isDurationConstraint = true
		case "SERVICE_TIME":
			ts.next()
			v, err := ts.nextInt()
			if err != nil {
				return nil, fmt.Errorf("parse tsplib: SERVICE_TIME: %w", err)
			}
			serviceTimeData = v
		case "EDGE_WEIGHT_SECTION":
			if !pi.isExplicitMatrix {
				return nil, fmt.Errorf("parse tsplib: EDGE_WEIGHT_SECTION can only be used with EDGE_WEIGHT_TYPE : EXPLICIT")
			}
			size := nbClients + 1
			mat := make([][]int, size)
			for i := range mat {
				mat[i] = make([]int, size)
				for j := range mat[i] {
					v, err := ts.nextInt()
					if err != nil {
						return nil, fmt.Errorf("parse tsplib: EDGE_WEIGHT_SECTION[%d][%d]: %w", i, j, err)
					}
					mat[i][j] = v
				}
			}
			pi.explicitMatrix = mat
		case "NODE_COORD_SECTION":
			ensureClients()
			for i := 0; i <= nbClients; i++ {
				id, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: NODE_COORD_SECTION id: %w", err)
				}
				if id != i+1 {
					return nil, fmt.Errorf("parse tsplib: clients are not in order in the list of coordinates")
				}
				x, err := ts.nextFloat()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: NODE_COORD_SECTION x: %w", err)
				}
				y, err := ts.nextFloat()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: NODE_COORD_SECTION y: %w", err)
				}
				clients[i].x = x
				clients[i].y = y
			}
		case "DEMAND_SECTION":
			ensureClients()
			for i := 0; i <= nbClients; i++ {
				id, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: DEMAND_SECTION id: %w", err)
				}
				if id != i+1 {
					return nil, fmt.Errorf("parse tsplib: clients are not in order in the list of demands")
				}
				d, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: DEMAND_SECTION demand: %w", err)
				}
				clients[i].demand = d
			}
			if clients[0].demand != 0 {
				return nil, fmt.Errorf("parse tsplib: depot demand is not zero, but is instead: %d", clients[0].demand)
			}
		case "DEPOT_SECTION":
			id, err := ts.nextInt()
			if err != nil {
				return nil, fmt.Errorf("parse tsplib: DEPOT_SECTION: %w", err)
			}
			if id != 1 {
				return nil, fmt.Errorf("parse tsplib: expected depot index 1 instead of %d", id)
			}
			ts.next() // terminating -1
		case "SERVICE_TIME_SECTION":
			ensureClients()
			for i := 0; i <= nbClients; i++ {
				id, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: SERVICE_TIME_SECTION id: %w", err)
				}
				if id != i+1 {
					return nil, fmt.Errorf("parse tsplib: clients are not in order in the list of service times")
				}
				v, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: SERVICE_TIME_SECTION value: %w", err)
				}
				clients[i].service = v
			}
			if clients[0].service != 0 {
				return nil, fmt.Errorf("parse tsplib: service duration for depot should be 0")
			}
			hasServiceTimeSection = true
		case "RELEASE_TIME_SECTION":
			ensureClients()
			for i := 0; i <= nbClients; i++ {
				id, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: RELEASE_TIME_SECTION id: %w", err)
				}
				if id != i+1 {
					return nil, fmt.Errorf("parse tsplib: clients are not in order in the list of release times")
				}
				v, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: RELEASE_TIME_SECTION value: %w", err)
				}
				clients[i].releaseTime = v
			}
			if clients[0].releaseTime != 0 {
				return nil, fmt.Errorf("parse tsplib: release time for depot should be 0")
			}
		case "TIME_WINDOW_SECTION":
			ensureClients()
			for i := 0; i <= nbClients; i++ {
				id, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: TIME_WINDOW_SECTION id: %w", err)
				}
				if id != i+1 {
					return nil, fmt.Errorf("parse tsplib: clients are not in order in the list of time windows")
				}
				e, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: TIME_WINDOW_SECTION earliest: %w", err)
				}
				l, err := ts.nextInt()
				if err != nil {
					return nil, fmt.Errorf("parse tsplib: TIME_WINDOW_SECTION latest: %w", err)
				}
				clients[i].earliest = e
				clients[i].latest = l
			}
			if clients[0].earliest != 0 {
				return nil, fmt.Errorf("parse tsplib: time window for depot should start at 0")
			}
		default:
			return nil, fmt.Errorf("parse tsplib: unexpected data in input file: %q", tok)
		}
	}

done:
	if nbClients <= 0 {
		return nil, fmt.Errorf("parse tsplib: number of nodes is undefined")
	}
	if pi.vehicleCapacity == math.MaxInt32 {
		return nil, fmt.Errorf("parse tsplib: vehicle capacity is undefined")
	}
	ensureClients()
	if !hasServiceTimeSection {
		for i := range clients {
			if i != 0 {
				clients[i].service = serviceTimeData
			}
		}
	}

	pi.clients = clients
	return pi, nil
}
