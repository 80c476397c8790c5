package processing

import (
	"os/exec"
	"strings"
)

// Device is the compute target the detection framework runs on.
type Device string

const (
	DeviceCUDA Device = "cuda"
	DeviceCPU  Device = "cpu"
)

// probeGPU reports whether an NVIDIA accelerator is visible. Tests replace it.
var probeGPU = func() bool {
	out, err := exec.Command("nvidia-smi", "-L").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), "GPU")
}

// SelectDevice picks the accelerator when one is available, else the CPU.
func SelectDevice() Device {
	if probeGPU() {
		return DeviceCUDA
	}
	return DeviceCPU
}

// TrainArg is the device value the training CLI expects.
func (d Device) TrainArg() string {
	if d == DeviceCUDA {
		return "0"
	}
	return "cpu"
}
