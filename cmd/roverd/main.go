package main

import (
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/roverbotics/rover.go/pkg/actuator"
	"github.com/roverbotics/rover.go/pkg/arbiter"
	"github.com/roverbotics/rover.go/pkg/command"
	"github.com/roverbotics/rover.go/pkg/config"
	fx "github.com/roverbotics/rover.go/pkg/framework"
	"github.com/roverbotics/rover.go/pkg/hal"
	"github.com/roverbotics/rover.go/pkg/link"
	"github.com/roverbotics/rover.go/pkg/ranging"
	"github.com/roverbotics/rover.go/pkg/telemetry"
	"github.com/roverbotics/rover.go/pkg/transport/serialport"
	"github.com/roverbotics/rover.go/pkg/wire"
)

var configPath = flag.String("config", "", "Path to the robot config file.")

func motorPins(c config.MotorPinsConfig) actuator.MotorPins {
	return actuator.MotorPins{
		Enable:    hal.Pin(c.Enable),
		Direction: hal.Pin(c.Direction),
		Step:      hal.Pin(c.Step),
	}
}

func main() {
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		glog.Exit(err)
	}

	board := hal.RegisteredBoard()
	if board == nil {
		glog.Warning("no board registered, running on a simulated board")
		board = hal.NewSimBoard()
	}

	timing := actuator.StepTiming{
		DirSetupMicros: conf.Motors.DirSetupMicros,
		StepHoldMicros: conf.Motors.StepHoldMicros,
	}
	drive := actuator.NewDrive(
		actuator.NewMotor("left", motorPins(conf.Motors.Left), conf.Motors.Left.InvertDir, timing, board, board),
		actuator.NewMotor("right", motorPins(conf.Motors.Right), conf.Motors.Right.InvertDir, timing, board, board),
		actuator.NewTrigger(hal.Pin(conf.Gun.Pin), uint64(conf.Gun.FireRate/time.Microsecond), board, board),
	)

	sensors := make([]ranging.SensorPins, len(conf.Sensors))
	for i, s := range conf.Sensors {
		sensors[i] = ranging.SensorPins{Trig: hal.Pin(s.Trig), Echo: hal.Pin(s.Echo)}
	}
	array := ranging.NewArray(sensors, board, board)
	if err := array.Bind(board); err != nil {
		glog.Exit(err)
	}

	port, err := serialport.Open(conf.Serial.Port, conf.Serial.Baud)
	if err != nil {
		glog.Exitf("open serial %s: %v", conf.Serial.Port, err)
	}

	dispatcher := command.NewDispatcher(drive)
	arb := arbiter.New(dispatcher, array, arbiter.Params{
		WallLimitMicros: conf.Roam.WallLimitMicros,
		CruiseRate:      conf.Roam.CruiseRate,
		TurnRate:        conf.Roam.TurnRate,
	})
	linkCtl := link.NewController(port.Source())

	cmdLoop := fx.NewLoop()
	cmdLoop.Interval = conf.Loop.CommandTick
	cmdLoop.Add(linkCtl, arb)
	cmdLoop.At(fx.StageActuate, fx.ControlFunc(func(fx.ControlContext) error {
		drive.Tick()
		return nil
	}))
	cmdLoop.AddRunnable(port)

	senseLoop := fx.NewLoop()
	senseLoop.Interval = conf.Loop.SensingTick
	senseLoop.Add(&ranging.Sampler{Array: array, Notify: cmdLoop})

	if conf.MQTT.BrokerURL != "" {
		queue, err := telemetry.NewQueue(conf.MQTT.BrokerURL)
		if err != nil {
			glog.Exit(err)
		}
		if err := queue.Connect(); err != nil {
			glog.Warningf("mqtt connect: %v", err)
		} else {
			defer queue.Close()
			robot := telemetry.RobotID()
			reporter := telemetry.NewReporter(queue, robot)
			dispatcher.Observer = reporter
			linkCtl.Observer = reporter
			arb.Observer = reporter
			cmdLoop.Add(&telemetry.StatusController{Reporter: reporter, Drive: drive, Arbiter: arb})
			src := &telemetry.CommandSource{Queue: queue, Robot: robot, Loop: cmdLoop}
			if err := src.Start(); err != nil {
				glog.Warningf("mqtt command source: %v", err)
			}
		}
	}

	glog.Infof("rover ready on %s (%d-byte frames)", conf.Serial.Port, wire.FrameSize)
	runner := fx.NewRunner().HandleSignals()
	runner.Go(
		fx.NamedRun("command-loop", cmdLoop),
		fx.NamedRun("sensing-loop", senseLoop),
	)
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
