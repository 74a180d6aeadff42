package controller

import (
	"errors"
	"fmt"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// ErrNoUSBSerial is returned when no USB serial port is connected
var ErrNoUSBSerial = errors.New("no USB serial ports found")

// OpenSerial opens the firmware's serial port (8N1)
func OpenSerial(port string, baud int) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", port, err)
	}

	return p, nil
}

// GetSerialPorts returns the names of connected USB serial ports
func GetSerialPorts() ([]string, error) {
	details, err := GetSerialPortDetails()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(details))
	for _, d := range details {
		names = append(names, d.Name)
	}
	return names, nil
}

// GetSerialPortDetails returns connected USB serial ports with their USB identifiers
func GetSerialPortDetails() ([]*enumerator.PortDetails, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var result []*enumerator.PortDetails
	for _, p := range ports {
		if p.IsUSB {
			result = append(result, p)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}
	return result, nil
}
