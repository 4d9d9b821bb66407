package models

// BikeCompany is reference catalog data owned by the remote backend.
type BikeCompany struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BikeModel belongs to exactly one BikeCompany.
type BikeModel struct {
	ID        int64  `json:"id"`
	ModelName string `json:"modelName"`
	EngineCc  int    `json:"engineCc"`
	CompanyID int64  `json:"companyId"`
}
