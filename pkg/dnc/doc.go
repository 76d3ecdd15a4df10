// Package dnc implements the DNC line protocol spoken by MC1 family
// linear-guide axis controllers.
package dnc

// The DNC protocol is communicated between the host and the axis controller
// over a byte channel (e.g. serial port). Commands are single ASCII frames
// "@<device><cmd><arg>" terminated by CR; the controller answers with one
// acknowledgement line whose first character is '0' on success or a device
// error code otherwise.
//
// The protocol carries no sequence numbers or checksums. Reliability is
// limited to a bounded retransmit of commands whose acknowledgement did not
// arrive in time, which is what Dispatcher provides on top of the codec.
//
// Producer: host driver
// Consumer: MC1 controller firmware
