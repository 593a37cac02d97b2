package mount

import (
	"fmt"

	"github.com/golang/glog"

	"nexstar/protocol"
)

// ModelUnknown is reported for model ids missing from the table
const ModelUnknown = "Unknown"

var modelNames = map[byte]string{
	1:  "GPS Series",
	3:  "i-Series",
	4:  "i-Series SE",
	5:  "CGE",
	6:  "Advanced GT",
	7:  "SLT",
	9:  "CPC",
	10: "GT",
	11: "4/5 SE",
	12: "6/8 SE",
	13: "CGE Pro",
	14: "CGEM DX",
	15: "LCM",
	16: "Sky Prodigy",
	17: "CPC Deluxe",
	18: "GT 16",
	19: "StarSeeker",
	20: "AVX",
	21: "Cosmos",
	22: "Evolution",
	23: "CGX",
	24: "CGXL",
	25: "Astrofi",
	26: "SkyWatcher",
}

// ModelName resolves a model id; unknown ids give ModelUnknown
func ModelName(id byte) string {
	if name, ok := modelNames[id]; ok {
		return name
	}
	return ModelUnknown
}

// IsGEM reports whether model id is a German equatorial mount. Only GEMs
// report pier side.
func IsGEM(id byte) bool {
	switch id {
	case 5, // CGE
		6,    // Advanced GT
		13,   // CGE Pro
		14,   // CGEM DX
		20,   // AVX
		0x17, // CGX
		0x18: // CGXL
		return true
	}
	return false
}

// Hand controllers report their model from StarSense 1.18 or NexStar 2.2 on
var (
	minStarSenseModel = Version{Major: 1, Minor: 18}
	minModel          = Version{Major: 2, Minor: 20}
)

// SupportsModel reports whether a hand controller answers the model query
func SupportsModel(v Version, variant Variant) bool {
	if variant == VariantStarSense && v.AtLeast(minStarSenseModel.Major, minStarSenseModel.Minor) {
		return true
	}
	return v.AtLeast(minModel.Major, minModel.Minor)
}

// FirmwareVersion reads the hand controller firmware version
func (m *Mount) FirmwareVersion() (Version, error) {
	resp, err := m.send([]byte{'V'}, 3)
	if err != nil {
		return Version{}, fmt.Errorf("get version: %w", err)
	}
	return Version{Major: resp[0], Minor: resp[1]}, nil
}

// Variant reads the hand controller family
func (m *Mount) Variant() (Variant, error) {
	resp, err := m.send([]byte{'v'}, 2)
	if err != nil {
		return 0, fmt.Errorf("get variant: %w", err)
	}
	return Variant(resp[0]), nil
}

// Model reads the mount model id
func (m *Mount) Model() (byte, error) {
	resp, err := m.send([]byte{'m'}, 2)
	if err != nil {
		return 0, fmt.Errorf("get model: %w", err)
	}
	return resp[0], nil
}

// AxisFirmware reads the firmware version of one motor controller. Older
// motor controllers answer with the major version only.
func (m *Mount) AxisFirmware(axis protocol.Axis) (string, error) {
	link, err := m.currentLink()
	if err != nil {
		return "", err
	}
	resp, err := link.SendPassthroughUpTo(axis, protocol.MCGetVersion, nil, 2)
	if err != nil {
		return "", fmt.Errorf("get %s firmware: %w", axis, err)
	}

	switch len(resp) {
	case 2:
		return fmt.Sprintf("%d.0", resp[0]), nil
	case 3:
		return fmt.Sprintf("%d.%02d", resp[0], resp[1]), nil
	default:
		return "", &protocol.UnsupportedResponseError{Op: fmt.Sprintf("get %s firmware", axis), Len: len(resp)}
	}
}

// Identify reads the hand controller version, variant and model and the
// firmware of both motor controllers
func (m *Mount) Identify() (*Identity, error) {
	id := &Identity{}

	var err error
	if id.Version, err = m.FirmwareVersion(); err != nil {
		return nil, err
	}
	glog.V(1).Infof("controller version %s", id.Version)

	// Hand controllers without the variant query are NexStar
	id.Variant = VariantNexStar
	if v, err := m.Variant(); err != nil {
		glog.Warningf("%v, assuming %s", err, VariantNexStar)
	} else {
		id.Variant = v
	}

	if SupportsModel(id.Version, id.Variant) {
		if id.ModelID, err = m.Model(); err != nil {
			return nil, err
		}
		id.Model = ModelName(id.ModelID)
		id.GEM = IsGEM(id.ModelID)
		if id.Model == ModelUnknown {
			glog.Warningf("unrecognized model %d", id.ModelID)
		}
	}

	if id.RAFirmware, err = m.AxisFirmware(protocol.AxisRA); err != nil {
		return nil, err
	}
	if id.DECFirmware, err = m.AxisFirmware(protocol.AxisDEC); err != nil {
		return nil, err
	}

	glog.Infof("firmware info %s", id)
	return id, nil
}
