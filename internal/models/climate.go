package models

import "fmt"

// ClimateModel names a downscaled CMIP6 model dataset.
type ClimateModel string

const (
	ModelACCESSCM2     ClimateModel = "ACCESS-CM2"
	ModelACCESSESM15   ClimateModel = "ACCESS-ESM1-5"
	ModelBCCCSM2MR     ClimateModel = "BCC-CSM2-MR"
	ModelCESM2         ClimateModel = "CESM2"
	ModelCESM2WACCM    ClimateModel = "CESM2-WACCM"
	ModelCMCCCM2SR5    ClimateModel = "CMCC-CM2-SR5"
	ModelCMCCESM2      ClimateModel = "CMCC-ESM2"
	ModelCNRMCM61      ClimateModel = "CNRM-CM6-1"
	ModelCNRMESM21     ClimateModel = "CNRM-ESM2-1"
	ModelCanESM5       ClimateModel = "CanESM5"
	ModelECEarth3      ClimateModel = "EC-Earth3"
	ModelECEarth3VegLR ClimateModel = "EC-Earth3-Veg-LR"
	ModelFGOALSg3      ClimateModel = "FGOALS-g3"
	ModelGFDLCM4       ClimateModel = "GFDL-CM4"
	ModelGFDLESM4      ClimateModel = "GFDL-ESM4"
	ModelGISSE21G      ClimateModel = "GISS-E2-1-G"
	ModelHadGEM3GC31LL ClimateModel = "HadGEM3-GC31-LL"
	ModelHadGEM3GC31MM ClimateModel = "HadGEM3-GC31-MM"
	ModelIITMESM       ClimateModel = "IITM-ESM"
	ModelINMCM48       ClimateModel = "INM-CM4-8"
	ModelINMCM50       ClimateModel = "INM-CM5-0"
	ModelIPSLCM6ALR    ClimateModel = "IPSL-CM6A-LR"
	ModelKACE10G       ClimateModel = "KACE-1-0-G"
	ModelKIOSTESM      ClimateModel = "KIOST-ESM"
	ModelMIROCES2L     ClimateModel = "MIROC-ES2L"
	ModelMIROC6        ClimateModel = "MIROC6"
	ModelMPIESM12HR    ClimateModel = "MPI-ESM1-2-HR"
	ModelMPIESM12LR    ClimateModel = "MPI-ESM1-2-LR"
	ModelMRIESM20      ClimateModel = "MRI-ESM2-0"
	ModelNESM3         ClimateModel = "NESM3"
	ModelNorESM2LM     ClimateModel = "NorESM2-LM"
	ModelNorESM2MM     ClimateModel = "NorESM2-MM"
	ModelTaiESM1       ClimateModel = "TaiESM1"
	ModelUKESM10LL     ClimateModel = "UKESM1-0-LL"
)

// climateModels is kept in menu order.
var climateModels = []ClimateModel{
	ModelACCESSCM2, ModelACCESSESM15, ModelBCCCSM2MR, ModelCESM2, ModelCESM2WACCM, ModelCMCCCM2SR5,
	ModelCMCCESM2, ModelCNRMCM61, ModelCNRMESM21, ModelCanESM5, ModelECEarth3, ModelECEarth3VegLR,
	ModelFGOALSg3, ModelGFDLCM4, ModelGFDLESM4, ModelGISSE21G, ModelHadGEM3GC31LL, ModelHadGEM3GC31MM,
	ModelIITMESM, ModelINMCM48, ModelINMCM50, ModelIPSLCM6ALR, ModelKACE10G, ModelKIOSTESM,
	ModelMIROCES2L, ModelMIROC6, ModelMPIESM12HR, ModelMPIESM12LR, ModelMRIESM20, ModelNESM3,
	ModelNorESM2LM, ModelNorESM2MM, ModelTaiESM1, ModelUKESM10LL,
}

// ClimateModels returns every selectable model in menu order.
func ClimateModels() []ClimateModel {
	out := make([]ClimateModel, len(climateModels))
	copy(out, climateModels)
	return out
}

// ParseClimateModel matches name exactly against the known models.
func ParseClimateModel(name string) (ClimateModel, error) {
	for _, m := range climateModels {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown climate model: %q", name)
}

func (m ClimateModel) Valid() bool {
	_, err := ParseClimateModel(string(m))
	return err == nil
}

func (m ClimateModel) String() string {
	return string(m)
}

// Scenario is a climate projection pathway.
type Scenario string

const (
	ScenarioHistorical Scenario = "historical"
	ScenarioSSP245     Scenario = "ssp245"
	ScenarioSSP585     Scenario = "ssp585"
)

var scenarios = []Scenario{ScenarioHistorical, ScenarioSSP245, ScenarioSSP585}

func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

func ParseScenario(name string) (Scenario, error) {
	switch Scenario(name) {
	case ScenarioHistorical, ScenarioSSP245, ScenarioSSP585:
		return Scenario(name), nil
	default:
		return "", fmt.Errorf("unknown scenario: %q", name)
	}
}

func (s Scenario) String() string {
	return string(s)
}
