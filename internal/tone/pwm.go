package tone

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// PWMOutput drives a buzzer from a PWM-capable pin at 50% duty.
// host.Init must have been called before NewPWMOutput.
type PWMOutput struct {
	pin     gpio.PinIO
	hz      int
	enabled bool
}

// NewPWMOutput opens the named pin (e.g. "GPIO18") and drives it low.
func NewPWMOutput(name string) (*PWMOutput, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("buzzer pin %q not found", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("buzzer pin %s: %w", name, err)
	}
	return &PWMOutput{pin: pin}, nil
}

// SetFrequency selects the tone frequency. A running tone is retuned at once.
func (o *PWMOutput) SetFrequency(hz int) error {
	o.hz = hz
	if o.enabled {
		return o.apply()
	}
	return nil
}

// SetEnabled starts or silences the tone.
func (o *PWMOutput) SetEnabled(on bool) error {
	if on == o.enabled {
		return nil
	}
	o.enabled = on
	return o.apply()
}

func (o *PWMOutput) apply() error {
	if !o.enabled || o.hz <= 0 {
		return o.pin.Out(gpio.Low)
	}
	return o.pin.PWM(gpio.DutyHalf, physic.Frequency(o.hz)*physic.Hertz)
}

// Close silences the buzzer and releases the pin.
func (o *PWMOutput) Close() error {
	o.enabled = false
	if err := o.pin.Out(gpio.Low); err != nil {
		return err
	}
	return o.pin.Halt()
}
