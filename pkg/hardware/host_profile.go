// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/automa-saga/logx"
	"github.com/jaypipes/ghw"
	"github.com/zcalusic/sysinfo"
)

// NvidiaVendorID is the PCI vendor id of NVIDIA Corporation
const NvidiaVendorID = "10de"

var once sync.Once

func suppressGHWWarnings() {
	once.Do(func() {
		_ = os.Setenv("GHW_DISABLE_WARNINGS", "1")
	})
}

// GPU is a graphics card found on the PCI bus
type GPU struct {
	Address  string `yaml:"address" json:"address"`
	VendorID string `yaml:"vendorId" json:"vendorId"`
	Vendor   string `yaml:"vendor" json:"vendor"`
	Product  string `yaml:"product" json:"product"`
}

// IsNvidia returns true for cards made by NVIDIA
func (g GPU) IsNvidia() bool {
	return strings.EqualFold(g.VendorID, NvidiaVendorID)
}

// HostProfile provides an abstraction over system information gathering
type HostProfile interface {
	GetOSVendor() string
	GetOSVersion() string
	GetKernelRelease() string

	// GetGPUs lists the graphics cards of the host; it is empty when the PCI bus cannot be read
	GetGPUs() []GPU

	String() string
}

// DefaultHostProfile implements HostProfile using sysinfo for the OS and ghw for the PCI bus
type DefaultHostProfile struct {
	sysInfo sysinfo.SysInfo
	gpus    []GPU
	gpuOnce sync.Once
}

// GetHostProfile creates a new DefaultHostProfile by gathering system information
func GetHostProfile() HostProfile {
	suppressGHWWarnings()

	var si sysinfo.SysInfo
	si.GetSysInfo()

	return &DefaultHostProfile{
		sysInfo: si,
	}
}

func (d *DefaultHostProfile) GetOSVendor() string {
	return d.sysInfo.OS.Vendor
}

func (d *DefaultHostProfile) GetOSVersion() string {
	return d.sysInfo.OS.Version
}

func (d *DefaultHostProfile) GetKernelRelease() string {
	return d.sysInfo.Kernel.Release
}

// GetGPUs reads the graphics cards once and caches them
func (d *DefaultHostProfile) GetGPUs() []GPU {
	d.gpuOnce.Do(func() {
		info, err := ghw.GPU()
		if err != nil {
			logx.As().Warn().Err(err).Msg("Failed to read GPU information from the PCI bus")
			return
		}

		for _, card := range info.GraphicsCards {
			gpu := GPU{Address: card.Address}
			if card.DeviceInfo != nil {
				if card.DeviceInfo.Vendor != nil {
					gpu.VendorID = card.DeviceInfo.Vendor.ID
					gpu.Vendor = card.DeviceInfo.Vendor.Name
				}
				if card.DeviceInfo.Product != nil {
					gpu.Product = card.DeviceInfo.Product.Name
				}
			}
			d.gpus = append(d.gpus, gpu)
		}
	})

	return d.gpus
}

func (d *DefaultHostProfile) String() string {
	return fmt.Sprintf("OS: %s %s, Kernel: %s, GPUs: %d",
		d.GetOSVendor(), d.GetOSVersion(), d.GetKernelRelease(), len(d.GetGPUs()))
}
