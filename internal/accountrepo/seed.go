package accountrepo

import "github.com/go-petr/basic-bank/internal/domain"

// SeedAccounts are the customers every fresh store starts with.
var SeedAccounts = []domain.Account{
	{AccountNo: "1", Name: "Aditya Sharma", Email: "aditya@gmail.com", Phone: "7854123698", IFSCCode: "XXXX8569", Balance: 7895641238},
	{AccountNo: "2", Name: "Rohan Gupta", Email: "rohan@gmail.com", Phone: "9865321470", IFSCCode: "XXXX7412", Balance: 4512360},
	{AccountNo: "3", Name: "Suresh Kumar", Email: "suresh@gmail.com", Phone: "9632587410", IFSCCode: "XXXX3698", Balance: 125478},
	{AccountNo: "4", Name: "Mohit Jain", Email: "mohit@gmail.com", Phone: "8745129630", IFSCCode: "XXXX1597", Balance: 98563},
	{AccountNo: "5", Name: "Priya Verma", Email: "priya@gmail.com", Phone: "7896541230", IFSCCode: "XXXX7531", Balance: 657412},
	{AccountNo: "6", Name: "Neha Singh", Email: "neha@gmail.com", Phone: "9517538520", IFSCCode: "XXXX4569", Balance: 2541036},
	{AccountNo: "7", Name: "Karan Mehta", Email: "karan@gmail.com", Phone: "8529637410", IFSCCode: "XXXX8523", Balance: 74125},
	{AccountNo: "8", Name: "Ananya Iyer", Email: "ananya@gmail.com", Phone: "7539518520", IFSCCode: "XXXX9632", Balance: 365214},
	{AccountNo: "9", Name: "Vikram Rao", Email: "vikram@gmail.com", Phone: "9874563210", IFSCCode: "XXXX2584", Balance: 1236547},
	{AccountNo: "10", Name: "Sneha Patel", Email: "sneha@gmail.com", Phone: "8963257410", IFSCCode: "XXXX6547", Balance: 45210},
	{AccountNo: "11", Name: "Arjun Nair", Email: "arjun@gmail.com", Phone: "7412589630", IFSCCode: "XXXX3214", Balance: 852147},
	{AccountNo: "12", Name: "Pooja Reddy", Email: "pooja@gmail.com", Phone: "9638527410", IFSCCode: "XXXX9874", Balance: 963258},
	{AccountNo: "13", Name: "Rahul Das", Email: "rahul@gmail.com", Phone: "8527419630", IFSCCode: "XXXX1472", Balance: 14785},
	{AccountNo: "14", Name: "Kavya Menon", Email: "kavya@gmail.com", Phone: "7418529630", IFSCCode: "XXXX2589", Balance: 258963},
	{AccountNo: "15", Name: "Deepak Joshi", Email: "deepak@gmail.com", Phone: "9517534560", IFSCCode: "XXXX3571", Balance: 3698521},
}
