package dto

type ListInstancesResponse struct {
	Instances []InstanceSummaryResponse `json:"instances"`
}
