package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/bweide/sensim/internal/device"
	influx "github.com/bweide/sensim/internal/influxdb"
	"github.com/bweide/sensim/internal/rule"
	"github.com/bweide/sensim/internal/sensor"
	"github.com/bweide/sensim/internal/simulation"
	"github.com/bweide/sensim/internal/structure"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env file not loaded: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	params := simulation.NewParameters(simulation.MovablesFromEnv())

	// Device profiles: a heater reporting its temperature and accepting
	// setpoint commands, and a presence detector that only reports. The
	// command names are the setpoints themselves; a commanded heater
	// reports the setpoint in its following uplinks, so they must stay
	// parseable under the rule thresholds below.
	heaterType, err := params.AddDeviceProfile(60,
		&device.Uplink{Payloads: []string{"temperature"}},
		&device.Downlink{Payloads: []device.DownlinkPayload{
			{CommandName: "24"},
			{CommandName: "17"},
		}})
	if err != nil {
		log.Fatalf("device profile error: %v", err)
	}
	presenceType, err := params.AddDeviceProfile(120,
		&device.Uplink{Payloads: []string{"occupancy"}}, nil)
	if err != nil {
		log.Fatalf("device profile error: %v", err)
	}

	site, sensors := buildSite(heaterType, presenceType)
	params.SetStructure(site)
	params.SetNumberOfSensors(int64(len(sensors)))

	// Drop the office heater to the eco setpoint when the room is warm and
	// nobody is in.
	officeHeater := sensors[0]
	officePresence := sensors[1]
	params.SetRules([]rule.Rule{
		rule.New("office_heat_off",
			[]rule.Condition{
				rule.DeviceCondition{
					SensorID:     officeHeater.ID,
					SensorNumber: officeHeater.Number,
					PayloadIndex: 0,
					Operator:     ">",
					Threshold:    rule.Float32Value(24),
				},
				rule.DeviceCondition{
					SensorID:     officePresence.ID,
					SensorNumber: officePresence.Number,
					PayloadIndex: 0,
					Operator:     "==",
					Threshold:    rule.Int32Value(0),
				},
			},
			[]string{"&"},
			[]rule.Action{{
				SensorID:       officeHeater.ID,
				SensorNumber:   officeHeater.Number,
				PayloadIndices: []int{1},
			}}),
	})

	sim := simulation.New(params)
	if err := sim.StartUp(0); err != nil {
		log.Fatalf("simulation start-up error: %v", err)
	}

	sim.InjectStandardValues(
		[]string{"0", "1"},
		[][]string{{"25.5"}, {"0"}},
	)

	if err := sim.RunRules(); err != nil {
		log.Fatalf("rule execution error: %v", err)
	}

	outDir := os.Getenv("SENSIM_OUTPUT_DIR")
	if outDir == "" {
		outDir = "."
	}
	events, err := sim.Finish(outDir)
	if err != nil {
		log.Fatalf("simulation teardown error: %v", err)
	}
	if err := sim.WriteEventList(outDir); err != nil {
		log.Fatalf("event list write error: %v", err)
	}

	if os.Getenv("INFLUX_URL") != "" {
		cfg, err := influx.FromEnv()
		if err != nil {
			log.Fatalf("influx config error: %v", err)
		}
		client, err := influx.New(ctx, cfg)
		if err != nil {
			log.Fatalf("influx connection error: %v", err)
		}
		defer client.Close()

		if err := client.WriteEventList(ctx, sim.RunID().String(), time.Now(), events.Events()); err != nil {
			log.Fatalf("influx export error: %v", err)
		}
		log.Printf("event list exported to InfluxDB bucket %s", cfg.Bucket)
	}
}

// buildSite assembles the demo building: an entrance connected to a hallway
// that fans out into two offices and a kitchen. Movable objects enter and
// leave through the entrance and roam the rooms.
func buildSite(heaterType, presenceType sensor.SensorType) (*structure.Site, []sensor.Sensor) {
	g := structure.NewGraph()
	entrance := g.AddNode(structure.Location{Name: "Entrance"})
	hallway := g.AddNode(structure.Location{Name: "Hallway"})
	officeA := g.AddNode(structure.Location{Name: "Office_A"})
	officeB := g.AddNode(structure.Location{Name: "Office_B"})
	kitchen := g.AddNode(structure.Location{Name: "Kitchen"})

	g.Connect(entrance, hallway, structure.Passage{Name: "Entrance-Hallway"})
	g.Connect(hallway, officeA, structure.Passage{Name: "Hallway-Office_A"})
	g.Connect(hallway, officeB, structure.Passage{Name: "Hallway-Office_B"})
	g.Connect(hallway, kitchen, structure.Passage{Name: "Hallway-Kitchen"})
	// Connecting doors keep every room on a cycle, so an excursion that
	// draws its own anchor as target still finds a round trip.
	g.Connect(officeA, officeB, structure.Passage{Name: "Office_A-Office_B"})
	g.Connect(officeA, kitchen, structure.Passage{Name: "Office_A-Kitchen"})

	var sensors []sensor.Sensor
	number := int64(0)
	attach := func(node *structure.Node, typ sensor.SensorType, ordinal int) {
		id := sensor.FormatID(nodeName(node), ordinal, typ.ID)
		sn := sensor.New(id, typ, number)
		node.AddSensor(sn)
		sensors = append(sensors, sn)
		number++
	}

	attach(officeA, heaterType, 0)
	attach(officeA, presenceType, 0)
	attach(officeB, heaterType, 0)
	attach(kitchen, presenceType, 0)

	site := structure.NewSite(g)
	site.MarkStart(entrance.ID())
	site.MarkEnd(entrance.ID())
	site.MarkVisitable(officeA.ID(), officeB.ID(), kitchen.ID())
	return site, sensors
}

func nodeName(n *structure.Node) string {
	if n.Data != nil {
		return n.Data.ID()
	}
	return strconv.FormatInt(n.ID(), 10)
}
