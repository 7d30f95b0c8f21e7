package model

type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	Description string `gorm:"type:text" json:"description"`
}

type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	ContactPerson string `gorm:"type:varchar(255)" json:"contact_person"`
	Email         string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone         string `gorm:"type:varchar(30)" json:"phone"`
	Address       string `gorm:"type:text" json:"address"`
}

type Customer struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email   string `gorm:"type:varchar(255);index" json:"email" validate:"omitempty,email"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`
	Address string `gorm:"type:text" json:"address"`
}
