// Command api serves the hostel console reports.
package main

func main() {
	startWithDig()
}
