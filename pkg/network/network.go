// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package network

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lassandro/intcode/pkg/machine"
)

const (
	DEFAULT_NODES       = 50
	DEFAULT_NAT_ADDRESS = 255
	DEFAULT_IDLE_INPUT  = -1
)

var (
	ErrInvalidAddress = errors.New("invalid packet address")
	ErrStalled        = errors.New("network stalled")
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

func SetLogger(l *zap.Logger) {
	logger = l
}

type Config struct {
	Nodes     int
	NAT       int64
	IdleInput int64
	Machine   machine.Options
}

func DefaultConfig() Config {
	return Config{
		Nodes:     DEFAULT_NODES,
		NAT:       DEFAULT_NAT_ADDRESS,
		IdleInput: DEFAULT_IDLE_INPUT,
		Machine:   machine.Options{Extended: true},
	}
}

type Packet struct {
	Addr int64
	X    int64
	Y    int64
}

// Single-slot holding buffer for packets sent to the NAT address
type NAT struct {
	Packet *Packet

	// Y of the first packet the NAT ever held
	First *int64

	// Y of the most recent delivery to node 0
	Delivered *int64
}

func (nat *NAT) hold(packet Packet) {
	if nat.First == nil {
		first := packet.Y
		nat.First = &first
	}

	nat.Packet = &packet
}

type Tick struct {
	Packets   []Packet
	Idle      bool
	Delivered *Packet
}

type Result struct {
	FirstY  int64
	RepeatY int64
	Ticks   int
}

type Network struct {
	Nodes  []*machine.Machine
	NAT    NAT
	Config Config
}

// Builds cfg.Nodes machines running program and boots them
func New(program []int64, cfg Config) (*Network, error) {
	nodes := make([]*machine.Machine, cfg.Nodes)

	for i := range nodes {
		nodes[i] = machine.New(program)
		nodes[i].Options = cfg.Machine
	}

	return NewFromMachines(nodes, cfg)
}

// Boots the given machines as nodes: node i receives its address i and runs
// until it first suspends.
func NewFromMachines(nodes []*machine.Machine, cfg Config) (*Network, error) {
	cfg.Nodes = len(nodes)
	net := &Network{Nodes: nodes, Config: cfg}

	for i, node := range nodes {
		node.AddInput(int64(i))

		if _, err := node.Run(); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}

	return net, nil
}

// Collects complete packets from every node's output, delivers the NAT packet
// to node 0 when nothing was sent, then routes what was collected.
func (net *Network) Route() (Tick, error) {
	var tick Tick

	for _, node := range net.Nodes {
		for node.Output.Len() >= 3 {
			addr, _ := node.Output.Pop()
			x, _ := node.Output.Pop()
			y, _ := node.Output.Pop()
			tick.Packets = append(tick.Packets, Packet{addr, x, y})
		}
	}

	tick.Idle = len(tick.Packets) == 0

	if tick.Idle && net.NAT.Packet != nil {
		packet := *net.NAT.Packet
		net.Nodes[0].AddInput(packet.X, packet.Y)

		y := packet.Y
		net.NAT.Delivered = &y
		tick.Delivered = &packet

		Logger().Debug(
			"nat delivered",
			zap.Int64("x", packet.X),
			zap.Int64("y", packet.Y),
		)
	}

	for _, packet := range tick.Packets {
		switch {
		case packet.Addr == net.Config.NAT:
			net.NAT.hold(packet)

		case packet.Addr >= 0 && packet.Addr < int64(len(net.Nodes)):
			net.Nodes[packet.Addr].AddInput(packet.X, packet.Y)

		default:
			return tick, fmt.Errorf("%w: %d", ErrInvalidAddress, packet.Addr)
		}
	}

	return tick, nil
}

// Feeds the idle input to every node with nothing to read and runs each node
// once.
func (net *Network) RunNodes() error {
	for i, node := range net.Nodes {
		if node.Input.Empty() {
			node.AddInput(net.Config.IdleInput)
		}

		if _, err := node.Run(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
	}

	return nil
}

func (net *Network) Tick() (Tick, error) {
	tick, err := net.Route()

	if err != nil {
		return tick, err
	}

	return tick, net.RunNodes()
}

func (net *Network) terminated() bool {
	for _, node := range net.Nodes {
		if !node.Terminated() {
			return false
		}
	}

	return true
}

// Ticks until an idle network would make the NAT deliver the same Y value as
// its previous delivery.
func (net *Network) Run() (Result, error) {
	for ticks := 0; ; ticks++ {
		if net.idle() && net.NAT.Packet != nil && net.NAT.Delivered != nil &&
			*net.NAT.Delivered == net.NAT.Packet.Y {
			result := Result{
				FirstY:  *net.NAT.First,
				RepeatY: net.NAT.Packet.Y,
				Ticks:   ticks,
			}

			Logger().Info(
				"network settled",
				zap.Int64("first_y", result.FirstY),
				zap.Int64("repeat_y", result.RepeatY),
				zap.Int("ticks", ticks),
			)

			return result, nil
		}

		if net.idle() && net.NAT.Packet == nil && net.terminated() {
			return Result{}, fmt.Errorf("%w after %d ticks", ErrStalled, ticks)
		}

		if _, err := net.Tick(); err != nil {
			return Result{}, err
		}
	}
}

// Reports whether no node has a complete packet waiting
func (net *Network) idle() bool {
	for _, node := range net.Nodes {
		if node.Output.Len() >= 3 {
			return false
		}
	}

	return true
}
