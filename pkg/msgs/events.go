package msgs

import (
	"github.com/golang/protobuf/proto"
)

// Telemetry events are hand-tagged structs implementing proto.Message
// so they marshal with the protobuf runtime without a separate
// generated package.

// CommandEcho echoes one executed command.
type CommandEcho struct {
	Command string `protobuf:"bytes,1,opt,name=command,proto3" json:"command,omitempty"`
	Source  string `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
}

// Reset implements proto.Message.
func (m *CommandEcho) Reset() { *m = CommandEcho{} }

// String implements proto.Message.
func (m *CommandEcho) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (m *CommandEcho) ProtoMessage() {}

// LinkDesync reports a malformed frame on the serial link. A burst of
// these means the byte stream is misaligned, not that the sender is
// issuing bad commands.
type LinkDesync struct {
	Raw   []byte `protobuf:"bytes,1,opt,name=raw,proto3" json:"raw,omitempty"`
	Total uint32 `protobuf:"varint,2,opt,name=total,proto3" json:"total,omitempty"`
}

// Reset implements proto.Message.
func (m *LinkDesync) Reset() { *m = LinkDesync{} }

// String implements proto.Message.
func (m *LinkDesync) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (m *LinkDesync) ProtoMessage() {}

// IntentChange reports the arbiter switching motion intent.
type IntentChange struct {
	From string `protobuf:"bytes,1,opt,name=from,proto3" json:"from,omitempty"`
	To   string `protobuf:"bytes,2,opt,name=to,proto3" json:"to,omitempty"`
	Mode string `protobuf:"bytes,3,opt,name=mode,proto3" json:"mode,omitempty"`
}

// Reset implements proto.Message.
func (m *IntentChange) Reset() { *m = IntentChange{} }

// String implements proto.Message.
func (m *IntentChange) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (m *IntentChange) ProtoMessage() {}

// Status is the periodic robot status event.
type Status struct {
	Robot        string `protobuf:"bytes,1,opt,name=robot,proto3" json:"robot,omitempty"`
	Mode         string `protobuf:"bytes,2,opt,name=mode,proto3" json:"mode,omitempty"`
	LeftEnabled  bool   `protobuf:"varint,3,opt,name=left_enabled,proto3" json:"left_enabled,omitempty"`
	RightEnabled bool   `protobuf:"varint,4,opt,name=right_enabled,proto3" json:"right_enabled,omitempty"`
	Firing       bool   `protobuf:"varint,5,opt,name=firing,proto3" json:"firing,omitempty"`
}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (m *Status) ProtoMessage() {}
