// Package msgs defines the messages exchanged with the rfd daemon.
//
// Every packet is a Typed envelope carrying a type ID, a sequence number
// and the protobuf encoded message. Commands are answered with a reply of
// the same sequence; events are unsolicited.
//
// Producer: rfd / rfsend -remote
// Consumer: rfd / rfsend -remote / rfmon
package msgs
