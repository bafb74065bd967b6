// Package e32 drives an Ebyte E32 LoRa module attached through a USB UART
// bridge. The module's AUX, M0 and M1 pins are wired to the bridge's CTS, DTR
// and RTS lines, so one serial handle carries both the data stream and the
// mode-select signals.
//
// # References:
//
// Ebyte
//   - [E32]: E32 series (E32-433T20D, E32-868T20D, E32-433T30D) user manual (could not find a stable public URL)
//
// Serial bridges
//   - [RS232]: control lines are active-low at TTL level: an asserted DTR/RTS drives the pin to 0V,
//     and CTS reads as asserted when the pin is held at 0V.
package e32
