package cloudshell

// StandardInfo is one standard installed on the CloudShell platform.
type StandardInfo struct {
	StandardName string   `json:"StandardName"`
	Versions     []string `json:"Versions"`
}

// UserInfo identifies a CloudShell user.
type UserInfo struct {
	Username string `json:"Username"`
	Email    string `json:"Email"`
}

// ExecutionEnvironmentType describes the runtime a shell's drivers execute in.
type ExecutionEnvironmentType struct {
	Position int    `json:"Position"`
	Path     string `json:"Path"`
}

// ShellInfo is the metadata CloudShell keeps for an installed shell.
type ShellInfo struct {
	ID                       string                   `json:"Id"`
	Name                     string                   `json:"Name"`
	Version                  string                   `json:"Version"`
	StandardType             string                   `json:"StandardType"`
	ModificationDate         string                   `json:"ModificationDate"`
	LastModifiedByUser       UserInfo                 `json:"LastModifiedByUser"`
	Author                   string                   `json:"Author"`
	IsOfficial               bool                     `json:"IsOfficial"`
	BasedOn                  string                   `json:"BasedOn"`
	ExecutionEnvironmentType ExecutionEnvironmentType `json:"ExecutionEnvironmentType"`
}
